package main

import "github.com/spf13/cobra"

func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "devkit",
		Short:         "CI and local-dev helpers for the contact suite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newFuzzCmd())
	root.AddCommand(newStackCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newServeCmd())

	return root
}
