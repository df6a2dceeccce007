package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/triplet/pkg/adapters/http"
	"github.com/aretw0/triplet/pkg/adapters/mcp"
)

const shutdownTimeout = 5 * time.Second

// Handler builds the HTTP API of a fresh desk.
func (a *App) Handler(ctx context.Context) (http.Handler, error) {
	desk, err := a.NewDesk(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing desk: %w", err)
	}
	return httpadapter.NewHandler(desk, a.Store,
		httpadapter.WithLogger(a.Logger),
		httpadapter.WithMetrics(a.Metrics.Handler()),
	)
}

// Serve exposes the desk over HTTP on addr until ctx is cancelled.
func Serve(ctx context.Context, app *App, addr string) error {
	handler, err := app.Handler(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting Triplet Server", "address", addr, "dataset", app.Config.Dataset, "store", app.Config.DescribeStore())
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		app.Logger.Info("Start Shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful Shutdown Incomplete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		app.Logger.Info("Triplet Server Stopped")
		return nil
	}
}

// Transports of ServeMCP.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the desk as MCP tools.
func ServeMCP(ctx context.Context, app *App, transport, addr string) error {
	desk, err := app.NewDesk(ctx)
	if err != nil {
		return fmt.Errorf("error initializing desk: %w", err)
	}
	srv := mcp.NewServer(desk, app.Store, app.Logger)

	switch transport {
	case TransportStdio, "":
		app.Logger.Info("Starting Triplet MCP Server (Stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		return srv.ServeSSE(ctx, addr)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
	}
}
