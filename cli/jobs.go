package cli

import (
	"strconv"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/task"
	"github.com/spf13/cobra"
)

var (
	jobName    string
	parts      int
	samples    int32
	yMax       float64
	dx         float64
	workerIDs  []string
	jobSeedOff int32
)

func NewJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs [submit|view|list]",
		Short: "Jobs manager",
		Long:  `Submit, view and list partitioned jobs on the manager.`,
	}

	submitCmd := &cobra.Command{
		Use:   "submit <trapezoid|montecarlo> <a> <b>",
		Short: "Submit job",
		Long: `Split [a, b] into parts, run them on the manager's workers and wait for the result.

Examples:
  quadra-cli jobs submit trapezoid 0 3.141592653589793 --dx 0.0001 --parts 8
  quadra-cli jobs submit montecarlo 0 3.141592653589793 --samples 1000000 --y-max 1 --parts 4`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 3 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			a, err := parseFloat("a", args[1])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			b, err := parseFloat("b", args[2])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			j, err := qsdk.SubmitJob(job.Spec{
				Name: jobName,
				Params: task.Params{
					Method:     task.Method(args[0]),
					Integrand:  integrand,
					A:          a,
					B:          b,
					Step:       dx,
					Samples:    samples,
					YMax:       yMax,
					SeedOffset: jobSeedOff,
				},
				Parts:     parts,
				WorkerIDs: workerIDs,
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, j)
		},
	}
	submitCmd.Flags().StringVar(&jobName, "name", "", "job name, generated when empty")
	submitCmd.Flags().StringVar(&integrand, "integrand", "", "integrand name (sin, cos, square, exp)")
	submitCmd.Flags().IntVar(&parts, "parts", 1, "number of fragments")
	submitCmd.Flags().Float64Var(&dx, "dx", 1e-4, "trapezoid step")
	submitCmd.Flags().Int32Var(&samples, "samples", 0, "Monte Carlo sample budget")
	submitCmd.Flags().Float64Var(&yMax, "y-max", 1, "Monte Carlo bounding height")
	submitCmd.Flags().Int32Var(&jobSeedOff, "seed-offset", 0, "seed offset of the first fragment")
	submitCmd.Flags().StringSliceVar(&workerIDs, "workers", nil, "worker ids to use, all workers when empty")

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View job",
		Long:  `View job.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			j, err := qsdk.GetJob(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, j)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [offset] [limit]",
		Short: "List jobs",
		Long:  `List jobs in submission order.`,
		Run: func(cmd *cobra.Command, args []string) {
			offset, limit, err := pageArgs(args)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			page, err := qsdk.ListJobs(offset, limit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	cmd.AddCommand(submitCmd, viewCmd, listCmd)

	return cmd
}

func pageArgs(args []string) (offset, limit uint64, err error) {
	offset, limit = defOffset, defLimit
	if len(args) > 0 {
		if offset, err = strconv.ParseUint(args[0], 10, 64); err != nil {
			return 0, 0, err
		}
	}
	if len(args) > 1 {
		if limit, err = strconv.ParseUint(args[1], 10, 64); err != nil {
			return 0, 0, err
		}
	}

	return offset, limit, nil
}
