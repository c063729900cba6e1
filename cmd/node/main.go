// Package main implements the node process: it loads a persisted recovery
// event stream, replays it through the recovery engine, and serves the
// resulting admin/metrics/pprof surfaces until signaled.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"

	apppkg "github.com/i-melnichenko/consensus-lab/internal/app"
	"github.com/i-melnichenko/consensus-lab/internal/kv"
	"github.com/i-melnichenko/consensus-lab/internal/observability/metrics"
	"github.com/i-melnichenko/consensus-lab/internal/raft"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "node: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := apppkg.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg.LogLevel))
	logger := slog.Default()

	promMetrics, err := metrics.NewPrometheus(nil)
	if err != nil {
		return err
	}

	tracer := otel.Tracer("consensus-lab/raft")
	storeTracer := otel.Tracer("consensus-lab/kv")

	provider := raft.NewFileProvider(cfg.DataDir, cfg.PersistenceEnabled)

	store := kv.NewStore(storeTracer)
	cohort := kv.NewCohort(store, nil)

	config := raft.ConfigParams{
		JournalRecoveryLogBatchSize:     cfg.JournalRecoveryLogBatchSize,
		RecoverySnapshotIntervalSeconds: cfg.RecoverySnapshotIntervalSeconds,
	}

	doCapture := func(ctx context.Context, meta raft.EntryMeta, replicatedToAllIndex int64) (raft.Snapshot, error) {
		data, err := store.Snapshot(ctx)
		if err != nil {
			return raft.Snapshot{}, fmt.Errorf("capture store snapshot: %w", err)
		}
		snap := raft.Snapshot{
			LastIndex:        meta.Index,
			LastTerm:         meta.Term,
			LastAppliedTerm:  meta.Term,
			LastAppliedIndex: meta.Index,
			State:            raft.OpaqueState{Data: data},
		}
		if err := provider.SaveSnapshot(ctx, snap); err != nil {
			return raft.Snapshot{}, fmt.Errorf("persist captured snapshot: %w", err)
		}
		return snap, nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	node, err := raft.NewNode(ctx, cfg.NodeID, logger, promMetrics, tracer, config, provider, cohort, doCapture)
	if err != nil {
		return fmt.Errorf("recover node: %w", err)
	}

	application, err := apppkg.New(cfg, logger, node)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
