package cli

import (
	"github.com/absmach/quadra/worker"
	"github.com/spf13/cobra"
)

var workerKind string

func NewWorkersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers [add|view|list|benchmark|remove]",
		Short: "Workers manager",
		Long:  `Add, view, list, benchmark and remove the manager's workers.`,
	}

	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add worker",
		Long:  `Start a native or wasm worker inside the manager.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}

			w, err := qsdk.AddWorker(name, worker.Kind(workerKind))
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, w)
		},
	}
	addCmd.Flags().StringVar(&workerKind, "kind", string(worker.KindNative), "worker kind (native, wasm)")

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View worker",
		Long:  `View worker.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			w, err := qsdk.GetWorker(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, w)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [offset] [limit]",
		Short: "List workers",
		Long:  `List workers in registration order.`,
		Run: func(cmd *cobra.Command, args []string) {
			offset, limit, err := pageArgs(args)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			page, err := qsdk.ListWorkers(offset, limit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	benchmarkCmd := &cobra.Command{
		Use:   "benchmark <id>",
		Short: "Benchmark worker",
		Long:  `Re-measure a worker's score.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			w, err := qsdk.Benchmark(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, w)
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove worker",
		Long:  `Remove worker.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := qsdk.RemoveWorker(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logOKCmd(*cmd)
		},
	}

	cmd.AddCommand(addCmd, viewCmd, listCmd, benchmarkCmd, removeCmd)

	return cmd
}
