package raft

// SnapshotState is the application-defined state carried by a Snapshot. It
// is either the Empty sentinel or an opaque blob the cohort knows how to
// interpret (the state machine's own serialized data).
type SnapshotState interface {
	// IsEmpty reports whether this is the Empty state.
	IsEmpty() bool
	// NeedsMigration reports whether this state was captured in an older
	// on-disk format that must be re-persisted in the current one.
	NeedsMigration() bool
}

// EmptyState is the sentinel SnapshotState used when there is no
// application state to carry — at cold start, and whenever the recovery
// engine synthesizes a scrubbed or wipe snapshot.
type EmptyState struct{}

// IsEmpty implements SnapshotState.
func (EmptyState) IsEmpty() bool { return true }

// NeedsMigration implements SnapshotState. Empty state never needs migration.
func (EmptyState) NeedsMigration() bool { return false }

// OpaqueState wraps an application-serialized blob.
type OpaqueState struct {
	Data     []byte
	Migrated bool
}

// IsEmpty implements SnapshotState.
func (OpaqueState) IsEmpty() bool { return false }

// NeedsMigration implements SnapshotState.
func (o OpaqueState) NeedsMigration() bool { return o.Migrated }

// Snapshot is a compact representation of state at a log index, plus any
// unapplied entries needed to reach the committed tail.
type Snapshot struct {
	State SnapshotState

	UnappliedEntries []Entry

	LastIndex uint64
	LastTerm  uint64

	LastAppliedIndex uint64
	LastAppliedTerm  uint64

	TermInfo TermInfo

	// ServerConfig is nil when the snapshot carries no membership change.
	ServerConfig *ServerConfiguration

	// ElectionVotes is an optional record of in-flight election state
	// carried through the snapshot; recovery only needs to pass it through
	// unchanged if present, it never inspects it.
	ElectionVotes []byte
}

// emptySnapshot returns a scrubbed/wipe Snapshot: Empty state, no unapplied
// entries, sentinel indices, preserving only TermInfo and an optional
// server configuration. Used both when persistence is disabled at the time
// a SnapshotOffer arrives (§4.1.1) and when synthesizing the Path A
// wipe-and-snapshot at RecoveryCompleted (§4.3).
//
// The source represents "no index" with -1 in a zero-based log (so the
// first real entry is index 0). This package instead follows the teacher's
// one-based convention (snapshotIndex 0 means "empty", the first real entry
// is index 1), so the Go equivalent of the source's sentinel -1 is 0, not a
// wraparound value: a fresh log anchored at snapshotIndex 0 accepts its
// first Append at index 1, exactly like a log that never had a snapshot.
func emptySnapshot(ti TermInfo, cfg *ServerConfiguration) Snapshot {
	return Snapshot{
		State:            EmptyState{},
		UnappliedEntries: nil,
		LastIndex:        0,
		LastTerm:         0,
		LastAppliedIndex: 0,
		LastAppliedTerm:  0,
		TermInfo:         ti,
		ServerConfig:     cfg,
	}
}
