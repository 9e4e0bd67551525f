package fuzz

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
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
	assert.Equal(t, "http://localhost:8080", opts.BaseURL)
	assert.Equal(t, "/v3/api-docs", opts.SpecPath)
	assert.Positive(t, opts.ReadyTimeout)

	custom := Options{BaseURL: "http://api:9000", SpecPath: "/spec", ReadyTimeout: time.Minute}.withDefaults()
	assert.Equal(t, "http://api:9000", custom.BaseURL)
	assert.Equal(t, "/spec", custom.SpecPath)
	assert.Equal(t, time.Minute, custom.ReadyTimeout)
}

func TestArgs(t *testing.T) {
	args := Args("http://localhost:8080/v3/api-docs", "http://localhost:8080")

	assert.Equal(t, "run", args[0])
	assert.Equal(t, "http://localhost:8080/v3/api-docs", args[1])

	// The CI knobs must stay pinned: every check, a single worker so the
	// app is not overwhelmed, capped examples, five-second deadline.
	joined := ""
	for _, a := range args {
		joined += a + " "
	}
	assert.Contains(t, joined, "--checks all")
	assert.Contains(t, joined, "--base-url http://localhost:8080")
	assert.Contains(t, joined, "--workers 1")
	assert.Contains(t, joined, "--max-examples 50")
	assert.Contains(t, joined, "--hypothesis-deadline 5000")
	assert.Contains(t, joined, "--validate-schema true")
}

func TestExportSpec(t *testing.T) {
	const doc = `{"openapi":"3.0.1","paths":{}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/api-docs", r.URL.Path)
		w.Write([]byte(doc))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "artifacts", "openapi.json")
	err := ExportSpec(context.Background(), srv.URL+"/v3/api-docs", out, discardLogger())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, doc, string(data))
}

func TestExportSpecNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "openapi.json")
	err := ExportSpec(context.Background(), srv.URL+"/v3/api-docs", out, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no file should be written on failure")
}

func TestExportSpecUnreachable(t *testing.T) {
	out := filepath.Join(t.TempDir(), "openapi.json")
	err := ExportSpec(context.Background(), "http://127.0.0.1:1/v3/api-docs", out, discardLogger())
	require.Error(t, err)
}
