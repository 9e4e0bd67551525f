package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/devstack"
)

func newStackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "Run Spring Boot API + Vite UI together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := devstack.Options{
				RootDir:        viper.GetString("stack.root"),
				FrontendDir:    viper.GetString("stack.frontend-dir"),
				BackendURL:     viper.GetString("stack.backend-url"),
				BackendTimeout: viper.GetDuration("stack.backend-timeout"),
				FrontendPort:   viper.GetInt("stack.frontend-port"),
				SkipInstall:    viper.GetBool("stack.skip-frontend-install"),
				BackendGoal:    viper.GetString("stack.backend-goal"),
			}
			code := devstack.Run(cmd.Context(), opts, slog.Default())
			return lib.Exit(code, nil)
		},
	}

	cmd.Flags().String("root", ".", "repository root where Maven runs")
	cmd.Flags().String("frontend-dir", "", "Vite app directory (default <root>/ui/contact-app)")
	cmd.Flags().String("backend-url", devstack.DefaultBackendURL, "actuator health URL to poll before starting the UI")
	cmd.Flags().Duration("backend-timeout", 120*time.Second, "max wait for the backend health endpoint")
	cmd.Flags().Int("frontend-port", devstack.DefaultFrontendPort, "port passed to `npm run dev -- --port`")
	cmd.Flags().Bool("skip-frontend-install", false, "skip `npm install` even if node_modules is missing")
	cmd.Flags().String("backend-goal", devstack.DefaultBackendGoal, "Maven goal used to start the backend")
	bindFlags(cmd, "stack")

	return cmd
}
