package raft

// RecoveryEvent is the sealed union of messages the persistence layer
// replays during recovery, matching the akka-persistence recovery message
// stream this package's driver was modeled on: an optional leading
// SnapshotOfferEvent, then zero or more journal events in persisted order,
// terminated by RecoveryCompletedEvent. Go has no sealed interfaces, so the
// set is closed only by convention: isRecoveryEvent is unexported, so types
// outside this package cannot implement it.
type RecoveryEvent interface {
	isRecoveryEvent()
}

// SnapshotOfferEvent offers a previously captured Snapshot for restoration.
// At most one may appear, and only as the first event.
type SnapshotOfferEvent struct {
	Snapshot Snapshot
}

func (SnapshotOfferEvent) isRecoveryEvent() {}

// ReplicatedLogEntryEvent is a single journaled log entry being replayed.
type ReplicatedLogEntryEvent struct {
	Entry Entry
}

func (ReplicatedLogEntryEvent) isRecoveryEvent() {}

// ApplyJournalEntriesEvent marks entries up to and including ToIndex as
// committed and ready to flush to the cohort.
type ApplyJournalEntriesEvent struct {
	ToIndex uint64
}

func (ApplyJournalEntriesEvent) isRecoveryEvent() {}

// DeleteEntriesEvent truncates the in-memory log from FromIndex onward
// (a conflicting-suffix rollback recorded in the journal).
type DeleteEntriesEvent struct {
	FromIndex uint64
}

func (DeleteEntriesEvent) isRecoveryEvent() {}

// ServerConfigurationEvent is a persisted membership change, applied
// directly to RaftActorContext rather than batched to the cohort.
type ServerConfigurationEvent struct {
	Config ServerConfiguration
}

func (ServerConfigurationEvent) isRecoveryEvent() {}

// UpdateElectionTermEvent is a persisted term/vote update.
type UpdateElectionTermEvent struct {
	TermInfo TermInfo
}

func (UpdateElectionTermEvent) isRecoveryEvent() {}

// RecoveryCompletedEvent terminates the replay stream and triggers the
// three-way exclusive reconciliation described in spec.md §4.3.
type RecoveryCompletedEvent struct{}

func (RecoveryCompletedEvent) isRecoveryEvent() {}

// UnknownEvent is a fallthrough for event types the driver does not
// recognize. Offer treats it as a no-op: logged and ignored, never fatal,
// since a forward-compatible journal may carry event kinds a given binary
// predates.
type UnknownEvent struct {
	Kind string
}

func (UnknownEvent) isRecoveryEvent() {}
