package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tickergrid/pkg/api"
	"github.com/matzehuels/tickergrid/pkg/state"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard state API",
		Long: `Run the HTTP API that dashboards load and save their state through.

Every request is bound to a session taken from the X-Session-ID header or the
session_id cookie; requests without one share the global workspace. Layout
changes are written to the configured backend after a quiet period, and
pending writes are flushed on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().DurationVar(&timeout, "request-timeout", 30*time.Second, "per-request timeout, 0 to disable")

	return cmd
}

// runServe serves the API until ctx is cancelled, then drains requests,
// flushes pending writes and closes the backend.
func (c *CLI) runServe(ctx context.Context, addr string, timeout time.Duration) error {
	backend, cfg, err := c.openBackend(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			c.Logger.Warn("close backend", "error", err)
		}
	}()

	if addr == "" {
		addr = cfg.Server.Addr
	}

	mgr := workspace.NewManager(backend, state.KeyerFor(cfg.Storage), c.managerOptions(cfg)...)
	if _, err := mgr.Get(ctx, state.GlobalSession); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	srv := &http.Server{
		Handler:           api.NewServer(mgr, api.WithLogger(logger), api.WithTimeout(timeout)).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	printSuccess("Serving on http://%s", ln.Addr())
	printDetail("Backend: %s", backend.Name())
	printDetail("Debounce: %s", cfg.Persist.Debounce.Duration)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		mgr.Close(context.WithoutCancel(ctx))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout.Duration)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		c.Logger.Warn("shutdown", "error", err)
	}
	sessions := len(mgr.Sessions())
	mgr.Close(shutdownCtx)
	printSuccess("Stopped, %d workspaces flushed", sessions)
	return nil
}
