package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/fuzz"
)

func newFuzzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Run API fuzzing against the OpenAPI spec",
		Long: "Runs Schemathesis against the backend's OpenAPI document to detect 5xx\n" +
			"errors and schema violations. The app must already be running, or pass\n" +
			"--start-app to boot it in the background and shut it down when done.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.Default()
			opts := fuzz.Options{
				BaseURL:      viper.GetString("fuzz.base-url"),
				SpecPath:     viper.GetString("fuzz.spec-path"),
				StartApp:     viper.GetBool("fuzz.start-app"),
				ExportSpec:   viper.GetString("fuzz.export-spec"),
				ReadyTimeout: viper.GetDuration("fuzz.timeout"),
				WorkDir:      viper.GetString("fuzz.root"),
			}

			started := time.Now()
			code := fuzz.Run(cmd.Context(), opts, log)
			recordRun(cmd.Context(), "fuzz", started, code, log)
			return lib.Exit(code, nil)
		},
	}

	cmd.Flags().String("base-url", fuzz.DefaultBaseURL, "base URL of the running app")
	cmd.Flags().String("spec-path", fuzz.DefaultSpecPath, "path to the OpenAPI spec")
	cmd.Flags().Bool("start-app", false, "start the Spring Boot app before fuzzing (and stop it after)")
	cmd.Flags().String("export-spec", "", "export the OpenAPI spec to this file (for ZAP/other tools)")
	cmd.Flags().Duration("timeout", 120*time.Second, "timeout for app startup")
	cmd.Flags().String("root", ".", "repository root where Maven runs")
	bindFlags(cmd, "fuzz")

	return cmd
}
