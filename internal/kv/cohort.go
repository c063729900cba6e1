package kv

import (
	"context"

	"github.com/i-melnichenko/consensus-lab/internal/raft"
)

// Cohort adapts a Store to raft.RecoveryCohort: recovered log entries are
// decoded as Commands and applied one at a time, and recovered snapshot
// state is handed to Store.RestoreSnapshot.
type Cohort struct {
	store   *Store
	restore *raft.Snapshot
}

// NewCohort returns a Cohort backed by store. restoreFromSnapshot, if
// non-nil, is offered to the recovery driver as an operator-requested
// restore point (spec.md §4.3 Path C) and is only ever applied when nothing
// else was recovered.
func NewCohort(store *Store, restoreFromSnapshot *raft.Snapshot) *Cohort {
	return &Cohort{store: store, restore: restoreFromSnapshot}
}

// StartLogRecoveryBatch implements raft.RecoveryCohort. Store has no
// batching concept of its own, so this is a no-op: each entry is applied to
// the map immediately in AppendRecoveredLogEntry.
func (c *Cohort) StartLogRecoveryBatch(maxBatchSize uint32) {}

// AppendRecoveredLogEntry implements raft.RecoveryCohort.
func (c *Cohort) AppendRecoveredLogEntry(payload raft.Payload) {
	data, ok := payload.(raft.ApplicationData)
	if !ok {
		return
	}
	_ = c.store.Apply(context.Background(), data.Data)
}

// ApplyCurrentLogRecoveryBatch implements raft.RecoveryCohort. No-op: see
// StartLogRecoveryBatch.
func (c *Cohort) ApplyCurrentLogRecoveryBatch() {}

// ApplyRecoverySnapshot implements raft.RecoveryCohort.
func (c *Cohort) ApplyRecoverySnapshot(state raft.SnapshotState) {
	if state.IsEmpty() {
		_ = c.store.RestoreSnapshot(context.Background(), nil)
		return
	}
	opaque, ok := state.(raft.OpaqueState)
	if !ok {
		return
	}
	_ = c.store.RestoreSnapshot(context.Background(), opaque.Data)
}

// GetRestoreFromSnapshot implements raft.RecoveryCohort.
func (c *Cohort) GetRestoreFromSnapshot() *raft.Snapshot {
	return c.restore
}
