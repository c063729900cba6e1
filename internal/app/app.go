// Package app wires the recovery engine, state machine, and admin surface
// together into a runnable node process.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/i-melnichenko/consensus-lab/internal/raft"
)

// Logger is the logging interface required by App.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// App wires the recovered Node and observability surfaces into a runnable
// process. All dependencies are injected; App does not itself drive
// election, replication, or client transport — those are out of scope for
// this repo's recovery engine (see DESIGN.md).
type App struct {
	config Config
	logger Logger
	node   *raft.Node
}

// New validates dependencies and constructs a runnable application. node
// must already have completed recovery (raft.NewNode runs it synchronously
// at construction), so by the time New is called the node's admin state is
// already meaningful.
func New(cfg Config, logger Logger, node *raft.Node) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, fmt.Errorf("app: nil logger")
	}
	if node == nil {
		return nil, fmt.Errorf("app: nil node")
	}
	return &App{config: cfg, logger: logger, node: node}, nil
}

// Run starts the admin HTTP server (and, if configured, the metrics and
// pprof servers) and blocks until ctx is canceled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	shutdownTracing, err := a.initTracing(ctx)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	lis, err := net.Listen("tcp", a.config.AdminAddr)
	if err != nil {
		return fmt.Errorf("listen admin %s: %w", a.config.AdminAddr, err)
	}
	defer func() { _ = lis.Close() }()

	a.logger.Info(
		"node started",
		"node_id", a.config.NodeID,
		"admin_addr", a.config.AdminAddr,
		"role", a.node.Role().String(),
		"status", a.node.Status(),
	)

	return a.serve(ctx, lis)
}

func (a *App) adminServer() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/state", a.handleAdminState)
	return &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func (a *App) handleAdminState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.node.AdminState()); err != nil {
		a.logger.Warn("admin state encode failed", "error", err)
	}
}

// serve starts the admin, metrics, and pprof HTTP servers and blocks until
// ctx is canceled or one of them fails.
func (a *App) serve(ctx context.Context, adminLis net.Listener) error {
	adminSrv := a.adminServer()

	metricsSrv, metricsLis, err := a.metricsServer()
	if err != nil {
		return err
	}
	pprofSrv, pprofLis, err := a.pprofServer()
	if err != nil {
		return err
	}

	errCh := make(chan error, 3)

	go func() {
		if err := adminSrv.Serve(adminLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("admin serve: %w", err)
		}
	}()
	if metricsSrv != nil {
		go func() {
			if err := metricsSrv.Serve(metricsLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics serve: %w", err)
			}
		}()
	}
	if pprofSrv != nil {
		go func() {
			if err := pprofSrv.Serve(pprofLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("pprof serve: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		shutdownHTTPServer(adminSrv, a.logger, "admin server")
		shutdownHTTPServer(metricsSrv, a.logger, "metrics server")
		shutdownHTTPServer(pprofSrv, a.logger, "pprof server")
		return nil
	case err := <-errCh:
		shutdownHTTPServer(adminSrv, a.logger, "admin server")
		shutdownHTTPServer(metricsSrv, a.logger, "metrics server")
		shutdownHTTPServer(pprofSrv, a.logger, "pprof server")
		return err
	}
}
