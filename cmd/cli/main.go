package main

import (
	"log"

	"github.com/absmach/quadra/cli"
	"github.com/absmach/quadra/pkg/sdk"
	"github.com/spf13/cobra"
)

func main() {
	var (
		managerURL      string
		tlsVerification bool
	)

	rootCmd := &cobra.Command{
		Use:   "quadra-cli",
		Short: "Quadra CLI",
		Long:  `Quadra CLI computes integrals locally and drives the Quadra manager.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			s := sdk.NewSDK(sdk.Config{
				ManagerURL:      managerURL,
				TLSVerification: tlsVerification,
			})
			cli.SetSDK(s)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&managerURL, "manager-url", "m", cli.DefManagerURL, "manager URL")
	rootCmd.PersistentFlags().BoolVar(&tlsVerification, "tls-verification", cli.DefTLSVerification, "verify the manager's TLS certificate")

	rootCmd.AddCommand(cli.NewComputeCmds()...)
	rootCmd.AddCommand(
		cli.NewJobsCmd(),
		cli.NewWorkersCmd(),
		cli.NewWizardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
