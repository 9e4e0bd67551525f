package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/site"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the QA dashboard artifact locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := site.Serve(ctx, site.Options{
				Dir:  viper.GetString("serve.path"),
				Port: viper.GetInt("serve.port"),
			}, slog.Default())
			if err != nil {
				return lib.Exit(lib.ExitInfra, err)
			}
			return nil
		},
	}

	cmd.Flags().String("path", "target/site", "path to the target/site directory")
	cmd.Flags().Int("port", 0, "port to bind (default: auto-pick an open port)")
	bindFlags(cmd, "serve")

	return cmd
}
