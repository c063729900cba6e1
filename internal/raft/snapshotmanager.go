package raft

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ApplySnapshot wraps a Snapshot being installed by SnapshotManager.Apply,
// the Go stand-in for the source's ApplySnapshot command.
type ApplySnapshot struct {
	Snapshot Snapshot
}

// SnapshotManager captures and installs snapshots. Capture's acceptance is
// observed synchronously through its return value; the capture work itself
// runs on a goroutine the manager owns, so the caller never blocks waiting
// for it to finish (spec.md §5).
type SnapshotManager interface {
	IsCapturing() bool
	Capture(meta EntryMeta, replicatedToAllIndex int64) bool
	Apply(snap ApplySnapshot)
}

// captureFunc performs the actual snapshot-capture work (reading current
// application state through the cohort and handing it to the persistence
// provider). It runs off the driver's goroutine.
type captureFunc func(ctx context.Context, meta EntryMeta, replicatedToAllIndex int64) (Snapshot, error)

// manager is the concrete SnapshotManager. A single capture may be in
// flight at a time; further requests are refused (load-shedding, not an
// error) until the in-flight one finishes, matching the "do not reset the
// timer on refusal" contract in spec.md §9.
type manager struct {
	mu        sync.Mutex
	capturing bool

	nodeID  string
	logger  Logger
	metrics Metrics
	tracer  oteltrace.Tracer

	doCapture captureFunc
	onApply   func(ApplySnapshot)
}

// NewSnapshotManager returns a SnapshotManager that runs doCapture on its own
// goroutine; persisting the captured snapshot is doCapture's job, and the
// Snapshot it returns is not used further. onApply is invoked synchronously by Apply (the caller is
// expected to hand this to the cohort and RaftActorContext).
func NewSnapshotManager(
	nodeID string,
	logger Logger,
	metrics Metrics,
	tracer oteltrace.Tracer,
	doCapture captureFunc,
	onApply func(ApplySnapshot),
) SnapshotManager {
	if logger == nil {
		logger = NewNoopLogger()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &manager{
		nodeID:    nodeID,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		doCapture: doCapture,
		onApply:   onApply,
	}
}

func (m *manager) IsCapturing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capturing
}

func (m *manager) Capture(meta EntryMeta, replicatedToAllIndex int64) bool {
	m.mu.Lock()
	if m.capturing {
		m.mu.Unlock()
		return false
	}
	m.capturing = true
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			m.capturing = false
			m.mu.Unlock()
		}()

		ctx, span := m.tracer.Start(context.Background(), "raft.recovery.CaptureSnapshot")
		span.SetAttributes(
			attribute.String("raft.node_id", m.nodeID),
			attribute.Int64("raft.snapshot.meta_index", int64(meta.Index)),
			attribute.Int64("raft.snapshot.meta_term", int64(meta.Term)),
		)
		defer span.End()

		snap, err := m.doCapture(ctx, meta, replicatedToAllIndex)
		if err != nil {
			spanRecordError(span, err)
			m.logger.Error("snapshot capture failed", "node_id", m.nodeID, "error", err, "index", meta.Index)
			m.metrics.IncRecoveryOpportunisticSnapshot(m.nodeID, "error")
			return
		}
		m.metrics.IncRecoveryOpportunisticSnapshot(m.nodeID, "captured")
		_ = snap
	}()

	return true
}

func (m *manager) Apply(snap ApplySnapshot) {
	if m.onApply != nil {
		m.onApply(snap)
	}
}
