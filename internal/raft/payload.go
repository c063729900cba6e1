package raft

// Payload is the tagged variant carried by a ReplicatedLogEntry. Go realizes
// the source's sealed union as an interface implemented by a closed set of
// exported structs, matched by type at the call sites that care
// (batchRecoveredLogEntry, handleReplicatedLogEntry).
type Payload interface {
	// IsPersistent reports whether this payload must survive even when
	// persistence is otherwise disabled (server configuration changes are
	// Raft's own state, not application data, and are always persistent).
	IsPersistent() bool
	// IsMigratedFormat reports whether this payload was serialized in an
	// older on-disk format that needs re-persisting in the current one.
	IsMigratedFormat() bool
}

// ApplicationData is an opaque application-defined command or value that the
// RecoveryCohort is responsible for interpreting.
type ApplicationData struct {
	Data       []byte
	Persistent bool
	Migrated   bool
}

// IsPersistent implements Payload.
func (a ApplicationData) IsPersistent() bool { return a.Persistent }

// IsMigratedFormat implements Payload.
func (a ApplicationData) IsMigratedFormat() bool { return a.Migrated }

// ServerConfiguration carries cluster membership changes. It is always
// persistent: membership is part of Raft's own state, never application
// data, regardless of whether the datastore layer has persistence enabled.
type ServerConfiguration struct {
	Voting    []NodeID
	NonVoting []NodeID
	Migrated  bool
}

// IsPersistent implements Payload. Always true: see type doc comment.
func (ServerConfiguration) IsPersistent() bool { return true }

// IsMigratedFormat implements Payload.
func (s ServerConfiguration) IsMigratedFormat() bool { return s.Migrated }

// Members returns the union of voting and non-voting node IDs.
func (s ServerConfiguration) Members() []NodeID {
	out := make([]NodeID, 0, len(s.Voting)+len(s.NonVoting))
	out = append(out, s.Voting...)
	out = append(out, s.NonVoting...)
	return out
}

// NoOp is a log entry with no application effect, used by the (out-of-scope)
// leader-election protocol to commit a no-op barrier entry at the start of a
// new term. Recovery accounts for its size/index/term like any other entry,
// and its payload is replayed to the cohort's AppendRecoveredLogEntry like
// any other non-ServerConfiguration payload.
type NoOp struct {
	Migrated bool
}

// IsPersistent implements Payload. A NoOp is always persistent.
func (NoOp) IsPersistent() bool { return true }

// IsMigratedFormat implements Payload.
func (n NoOp) IsMigratedFormat() bool { return n.Migrated }
