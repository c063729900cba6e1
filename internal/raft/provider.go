package raft

import "context"

// PersistenceProvider is the storage collaborator the recovery driver and
// snapshot manager both write through. It also rebuilds the recovery event
// stream itself: LoadRecoveryEvents is this repo's concrete stand-in for
// "the persistence runtime replays the journal" which spec.md treats as an
// external, already-happening precondition.
type PersistenceProvider interface {
	// IsRecoveryApplicable reports whether persisted state should be kept.
	// The persisted journal/snapshot is still loaded and replayed when this
	// is false — callers must not skip LoadRecoveryEvents on it — but the
	// driver discards what it recovers instead of seeding consensus state
	// with it, and scrubs the on-disk copy at RecoveryCompleted.
	IsRecoveryApplicable() bool

	// LoadRecoveryEvents returns the ordered event stream to replay:
	// an optional SnapshotOfferEvent followed by journal events, the
	// caller appends the terminating RecoveryCompletedEvent itself. Must be
	// called regardless of IsRecoveryApplicable.
	LoadRecoveryEvents() ([]RecoveryEvent, error)

	// SaveSnapshot durably persists snap.
	SaveSnapshot(ctx context.Context, snap Snapshot) error

	// DeleteMessages discards journal entries up to and including
	// sequenceNr, called after a snapshot makes them redundant.
	DeleteMessages(ctx context.Context, sequenceNr uint64) error

	// LastSequenceNumber returns the highest journal sequence number
	// persisted so far.
	LastSequenceNumber() uint64
}
