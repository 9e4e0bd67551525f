package devstack

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, ".", opts.RootDir)
	assert.Equal(t, filepath.Join(".", "ui", "contact-app"), opts.FrontendDir)
	assert.Equal(t, DefaultBackendURL, opts.BackendURL)
	assert.Equal(t, DefaultFrontendPort, opts.FrontendPort)
	assert.Equal(t, DefaultBackendGoal, opts.BackendGoal)
	assert.Positive(t, opts.BackendTimeout)
}

func TestOptionsDefaultsFollowRoot(t *testing.T) {
	opts := Options{RootDir: "/srv/app"}.withDefaults()
	assert.Equal(t, filepath.Join("/srv/app", "ui", "contact-app"), opts.FrontendDir)
}

func TestOptionsDefaultsKeepExplicitValues(t *testing.T) {
	opts := Options{
		FrontendDir:    "/ui",
		BackendURL:     "http://localhost:9999/health",
		BackendTimeout: time.Minute,
		FrontendPort:   3000,
		BackendGoal:    "quarkus:dev",
	}.withDefaults()
	assert.Equal(t, "/ui", opts.FrontendDir)
	assert.Equal(t, "http://localhost:9999/health", opts.BackendURL)
	assert.Equal(t, time.Minute, opts.BackendTimeout)
	assert.Equal(t, 3000, opts.FrontendPort)
	assert.Equal(t, "quarkus:dev", opts.BackendGoal)
}

func TestMaybeInstallFrontendSkipFlag(t *testing.T) {
	// SkipInstall wins even when node_modules is absent.
	opts := Options{FrontendDir: t.TempDir(), SkipInstall: true}
	require.NoError(t, maybeInstallFrontend(context.Background(), opts, discardLogger()))
}

func TestMaybeInstallFrontendSkipsWhenInstalled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))

	// With node_modules present this must not shell out to npm at all,
	// so it succeeds even on machines without npm.
	opts := Options{FrontendDir: dir}
	require.NoError(t, maybeInstallFrontend(context.Background(), opts, discardLogger()))
}
