package cli

import (
	"errors"
	"strconv"

	"github.com/absmach/quadra/job"
	"github.com/absmach/quadra/pkg/numeric"
	"github.com/absmach/quadra/task"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("job submission aborted")

// wizardAnswers holds the raw form input. Numbers stay strings until the
// form is confirmed so each field can be validated while typing.
type wizardAnswers struct {
	name      string
	method    string
	integrand string
	a, b      string
	dx        string
	samples   string
	yMax      string
	parts     string
	confirmed bool
}

func (w wizardAnswers) spec() (job.Spec, error) {
	if !w.confirmed {
		return job.Spec{}, errAborted
	}

	p := task.Params{
		Method:    task.Method(w.method),
		Integrand: w.integrand,
	}
	var err error
	if p.A, err = parseFloat("a", w.a); err != nil {
		return job.Spec{}, err
	}
	if p.B, err = parseFloat("b", w.b); err != nil {
		return job.Spec{}, err
	}
	switch p.Method {
	case task.MethodTrapezoid:
		if p.Step, err = parseFloat("dx", w.dx); err != nil {
			return job.Spec{}, err
		}
	case task.MethodMonteCarlo:
		if p.Samples, err = parseInt32("samples", w.samples); err != nil {
			return job.Spec{}, err
		}
		if p.YMax, err = parseFloat("y_max", w.yMax); err != nil {
			return job.Spec{}, err
		}
	}
	n, err := strconv.Atoi(w.parts)
	if err != nil {
		return job.Spec{}, err
	}

	return job.Spec{Name: w.name, Params: p, Parts: n}, nil
}

func isFloat(s string) error {
	_, err := strconv.ParseFloat(s, 64)

	return err
}

func isPositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n < 1 {
		return errors.New("must be at least 1")
	}

	return nil
}

func NewWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Interactive job submission",
		Long:  `Fill in a job spec interactively and submit it to the manager.`,
		Run: func(cmd *cobra.Command, _ []string) {
			ans := wizardAnswers{
				method: string(task.MethodTrapezoid),
				a:      "0",
				b:      "3.141592653589793",
				dx:     "0.0001",
				yMax:   "1",
				parts:  "4",
			}

			integrands := []huh.Option[string]{}
			for _, name := range numeric.Names() {
				integrands = append(integrands, huh.NewOption(name, name))
			}

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Job name").Placeholder("generated when empty").Value(&ans.name),
					huh.NewSelect[string]().
						Title("Method").
						Options(
							huh.NewOption("Trapezoidal rule", string(task.MethodTrapezoid)),
							huh.NewOption("Monte Carlo", string(task.MethodMonteCarlo)),
						).
						Value(&ans.method),
					huh.NewSelect[string]().Title("Integrand").Options(integrands...).Value(&ans.integrand),
					huh.NewInput().Title("Lower bound a").Value(&ans.a).Validate(isFloat),
					huh.NewInput().Title("Upper bound b").Value(&ans.b).Validate(isFloat),
					huh.NewInput().Title("Fragments").Value(&ans.parts).Validate(isPositiveInt),
				),
				huh.NewGroup(
					huh.NewInput().Title("Step dx").Value(&ans.dx).Validate(isFloat),
				).WithHideFunc(func() bool { return ans.method != string(task.MethodTrapezoid) }),
				huh.NewGroup(
					huh.NewInput().Title("Samples").Value(&ans.samples).Validate(isPositiveInt),
					huh.NewInput().Title("Bounding height y_max").Value(&ans.yMax).Validate(isFloat),
				).WithHideFunc(func() bool { return ans.method != string(task.MethodMonteCarlo) }),
				huh.NewGroup(
					huh.NewConfirm().Title("Submit job?").Value(&ans.confirmed),
				),
			)
			if err := form.Run(); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			spec, err := ans.spec()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			j, err := qsdk.SubmitJob(spec)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Job "+j.ID+" finished in state "+j.State.String())
			logJSONCmd(*cmd, j)
		},
	}
}
