package cli

import (
	"context"
	"os"

	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/pkg/wasmhost"
	"github.com/absmach/quadra/worker"
	"github.com/spf13/cobra"
)

var (
	integrand  string
	wasmFile   string
	policy     string
	seedOffset int32
	rounds     int
	iterations int64
)

// NewComputeCmds returns the commands that compute locally, either with the
// built-in numeric package or through a wasm module given by --wasm.
func NewComputeCmds() []*cobra.Command {
	integrateCmd := &cobra.Command{
		Use:   "integrate <a> <b> <dx>",
		Short: "Trapezoidal integration",
		Long: `Approximate the integral of an integrand over [a, b] with the trapezoidal rule.

Examples:
  quadra-cli integrate 0 3.141592653589793 0.0001
  quadra-cli integrate 0 3 0.001 --integrand square
  quadra-cli integrate 0 3.141592653589793 0.0001 --wasm calc.wasm`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 3 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			a, b, dx, err := parseInterval(args[0], args[1], args[2], "dx")
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			var v float64
			if wasmFile != "" {
				v, err = withModule(cmd.Context(), func(m *wasmhost.Module) (float64, error) {
					return m.Integrate(cmd.Context(), a, b, dx)
				})
			} else {
				var in numeric.Integrand
				if in, err = numeric.Lookup(integrand); err == nil {
					v, err = numeric.NewIntegrator(numeric.WithIntegrand(in)).Integrate(a, b, dx)
				}
			}
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, map[string]float64{"value": v})
		},
	}

	estimateCmd := &cobra.Command{
		Use:   "estimate <a> <b> <samples> <y_max>",
		Short: "Monte Carlo area estimate",
		Long: `Estimate the area under a non-negative integrand over [a, b] by rejection sampling.

Examples:
  quadra-cli estimate 0 3.141592653589793 100000 1
  quadra-cli estimate 0 3.141592653589793 100000 0.5 --policy clamp`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 4 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			a, b, yMax, err := parseInterval(args[0], args[1], args[3], "y_max")
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			samples, err := parseInt32("samples", args[2])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			if wasmFile != "" {
				area, err := withModule(cmd.Context(), func(m *wasmhost.Module) (float64, error) {
					return m.EstimateArea(cmd.Context(), a, b, samples, yMax, seedOffset)
				})
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, map[string]float64{"area": area})

				return
			}

			p, err := numeric.ParseBoundPolicy(policy)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			in, err := numeric.Lookup(integrand)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			est, err := numeric.NewEstimator(numeric.WithIntegrand(in), numeric.WithBoundPolicy(p)).
				Sample(a, b, samples, yMax, seedOffset)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, est)
		},
	}
	estimateCmd.Flags().StringVar(&policy, "policy", numeric.BoundStrict.String(), "bounding height policy (strict, clamp, unchecked)")
	estimateCmd.Flags().Int32Var(&seedOffset, "seed-offset", 0, "offset added to the generator seed")

	addCmd := &cobra.Command{
		Use:   "add <a> <b>",
		Short: "Wrapping 32-bit addition",
		Long:  `Add two 32-bit integers with two's-complement wrap-around.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}
			a, err := parseInt32("a", args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			b, err := parseInt32("b", args[1])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			sum := numeric.Add(a, b)
			if wasmFile != "" {
				s, err := withModule(cmd.Context(), func(m *wasmhost.Module) (float64, error) {
					s, err := m.Add(cmd.Context(), a, b)

					return float64(s), err
				})
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				sum = int32(s)
			}
			logJSONCmd(*cmd, map[string]int32{"sum": sum})
		},
	}

	benchmarkCmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Score this machine",
		Long: `Run the CPU-burn loop and report the median score over several rounds.

Examples:
  quadra-cli benchmark
  quadra-cli benchmark --wasm calc.wasm --rounds 5`,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()
			opts := []worker.Option{
				worker.WithBenchmarkRounds(rounds),
				worker.WithBurnIterations(iterations),
			}

			var (
				w   worker.Worker
				err error
			)
			if wasmFile != "" {
				bin, rerr := os.ReadFile(wasmFile)
				if rerr != nil {
					logErrorCmd(*cmd, rerr)

					return
				}
				w, err = worker.NewWasm(ctx, "local", bin, opts...)
			} else {
				w = worker.NewNative("local", opts...)
			}
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			defer w.Close(ctx)

			if _, err := w.Benchmark(ctx); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, w.Info())
		},
	}
	benchmarkCmd.Flags().IntVar(&rounds, "rounds", 3, "number of timed rounds")
	benchmarkCmd.Flags().Int64Var(&iterations, "iterations", numeric.DefaultBurnIterations, "burn loop length of native runs")

	cmds := []*cobra.Command{integrateCmd, estimateCmd, addCmd, benchmarkCmd}
	for _, c := range cmds {
		c.Flags().StringVar(&wasmFile, "wasm", "", "compute through this wasm module instead of natively")
	}
	integrateCmd.Flags().StringVar(&integrand, "integrand", "", "integrand name (sin, cos, square, exp)")
	estimateCmd.Flags().StringVar(&integrand, "integrand", "", "integrand name (sin, cos, square, exp)")

	return cmds
}

func parseInterval(as, bs, xs, name string) (a, b, x float64, err error) {
	if a, err = parseFloat("a", as); err != nil {
		return 0, 0, 0, err
	}
	if b, err = parseFloat("b", bs); err != nil {
		return 0, 0, 0, err
	}
	if x, err = parseFloat(name, xs); err != nil {
		return 0, 0, 0, err
	}

	return a, b, x, nil
}

func withModule(ctx context.Context, fn func(m *wasmhost.Module) (float64, error)) (float64, error) {
	bin, err := os.ReadFile(wasmFile)
	if err != nil {
		return 0, err
	}
	m, err := wasmhost.Load(ctx, bin)
	if err != nil {
		return 0, err
	}
	defer m.Close(ctx)

	return fn(m)
}
