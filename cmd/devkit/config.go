package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jguida941/contact-suite-spring-react/pkg/lib"
	"github.com/jguida941/contact-suite-spring-react/pkg/lib/history"
)

// initConfig layers configuration sources: flags win over DEVKIT_*
// environment variables, which win over an optional devkit.yaml in the
// working directory.
func initConfig(verbose bool) error {
	viper.SetConfigName("devkit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("DEVKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("history-db", "target/devkit/history.db")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	level := slog.LevelInfo
	if verbose || viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// bindFlags registers every flag of cmd under "<section>.<flag>" so
// commands can read layered values through viper.
func bindFlags(cmd *cobra.Command, section string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(section+"."+f.Name, f)
	})
}

// recordRun appends one entry to the run-history store. History is a
// convenience, so failures are logged and otherwise ignored.
func recordRun(ctx context.Context, kind string, started time.Time, exitCode int, log *slog.Logger) {
	store, err := history.Open(viper.GetString("history-db"))
	if err != nil {
		log.Warn("run history unavailable", "err", err)
		return
	}
	defer store.Close()

	entry := history.Entry{
		ID:       lib.NewRunID(),
		Kind:     kind,
		Started:  started,
		Duration: time.Since(started),
		Outcome:  history.Outcome(exitCode),
		ExitCode: exitCode,
	}
	if err := store.Append(ctx, entry); err != nil {
		log.Warn("failed to record run", "err", err)
	}
}
