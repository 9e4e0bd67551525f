// Package site previews the generated QA dashboard locally with a plain
// static file server. There is nothing clever here on purpose: the
// artifact is self-contained HTML and the standard library server is
// all it needs.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// Options configures the preview server.
type Options struct {
	Dir       string // site directory to serve (e.g. target/site)
	Port      int    // 0 picks a free port
	IndexPath string // request path printed as the entry point

	// OnReady, when set, receives the dashboard URL once the listener
	// is bound, e.g. to open a browser.
	OnReady func(url string)
}

// Serve blocks serving opts.Dir until ctx is cancelled. The bound
// address is logged once the listener is up, so callers relying on an
// auto-picked port can read it from the log line.
func Serve(ctx context.Context, opts Options, log *slog.Logger) error {
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return fmt.Errorf("site directory %s does not exist", opts.Dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", opts.Dir)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", opts.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	index := opts.IndexPath
	if index == "" {
		index = "/qa-dashboard/index.html"
	}
	srv := &http.Server{Handler: http.FileServer(http.Dir(opts.Dir))}

	url := fmt.Sprintf("http://%s%s", ln.Addr(), index)
	log.Info("serving dashboard", "dir", opts.Dir, "url", url)
	log.Info("press Ctrl+C to stop")
	if opts.OnReady != nil {
		opts.OnReady(url)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
