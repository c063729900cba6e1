package raft

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// RecoveryCohort is the application-level collaborator the recovery driver
// replays recovered state into. A concrete cohort owns a state machine
// (internal/kv.Cohort is this repo's example) and is responsible for
// interpreting ApplicationData payloads and opaque snapshot state; the
// driver itself never inspects either.
type RecoveryCohort interface {
	// StartLogRecoveryBatch begins a new batch of at most maxBatchSize
	// recovered entries. Called once per batch, before any
	// AppendRecoveredLogEntry call in that batch.
	StartLogRecoveryBatch(maxBatchSize uint32)

	// AppendRecoveredLogEntry adds payload to the batch currently being
	// built. ServerConfiguration payloads are never passed here — they are
	// applied directly to RaftActorContext instead (spec.md §4.1.2).
	AppendRecoveredLogEntry(payload Payload)

	// ApplyCurrentLogRecoveryBatch flushes the batch built since the last
	// StartLogRecoveryBatch to the state machine.
	ApplyCurrentLogRecoveryBatch()

	// ApplyRecoverySnapshot installs state recovered from a snapshot.
	ApplyRecoverySnapshot(state SnapshotState)

	// GetRestoreFromSnapshot returns an operator-supplied snapshot to apply
	// at RecoveryCompleted (Path C), or nil if none was requested.
	GetRestoreFromSnapshot() *Snapshot
}
