package raft

import "sync"

// ConfigParams are read-only tunables consulted by the recovery engine.
type ConfigParams struct {
	// JournalRecoveryLogBatchSize is the number of recovered log entries
	// batched into one cohort.StartLogRecoveryBatch/...ApplyCurrentLogRecoveryBatch
	// round. Must be > 0.
	JournalRecoveryLogBatchSize uint32

	// RecoverySnapshotIntervalSeconds gates the opportunistic mid-recovery
	// snapshot. Zero disables it entirely.
	RecoverySnapshotIntervalSeconds uint32
}

// RaftActorContext is the shared consensus state the recovery driver
// borrows and mutates. The concrete implementation outlives a single
// recovery run and is handed to the normal operating role afterward.
type RaftActorContext interface {
	SetReplicatedLog(log *Log)
	GetReplicatedLog() *Log

	SetTermInfo(ti TermInfo)
	TermInfo() TermInfo

	SetLastApplied(i uint64)
	GetLastApplied() uint64

	SetCommitIndex(i uint64)
	GetCommitIndex() uint64

	UpdatePeerIds(cfg ServerConfiguration)
	GetPeerServerInfo(includeSelf bool) ServerConfiguration

	GetSnapshotManager() SnapshotManager
	GetConfigParams() ConfigParams
	GetLogger() Logger
	GetId() string
}

// actorContext is the concrete RaftActorContext used outside of tests.
//
// Mutation during recovery happens on a single goroutine (spec.md §5), but
// the admin-visibility surface (internal/app's HTTP endpoint) reads this
// concurrently from another goroutine after recovery completes, so fields
// are still guarded by a mutex, matching the teacher Node's own
// sync.Mutex-guarded struct.
type actorContext struct {
	mu sync.Mutex

	id     string
	logger Logger
	config ConfigParams

	log         *Log
	termInfo    TermInfo
	lastApplied uint64
	commitIndex uint64

	self ServerConfiguration

	snapshotMgr SnapshotManager
}

// NewContext builds a RaftActorContext for node id, seeded with an empty log
// and the node itself as the sole known peer (callers typically overwrite
// this once a persisted or operator-supplied ServerConfiguration arrives).
func NewContext(id string, logger Logger, config ConfigParams, snapshotMgr SnapshotManager) RaftActorContext {
	return &actorContext{
		id:          id,
		logger:      logger,
		config:      config,
		log:         NewLog(),
		self:        ServerConfiguration{Voting: []NodeID{NodeID(id)}},
		snapshotMgr: snapshotMgr,
	}
}

func (c *actorContext) SetReplicatedLog(log *Log) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = log
}

func (c *actorContext) GetReplicatedLog() *Log {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log
}

func (c *actorContext) SetTermInfo(ti TermInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.termInfo = ti
}

func (c *actorContext) TermInfo() TermInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.termInfo
}

func (c *actorContext) SetLastApplied(i uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastApplied = i
}

func (c *actorContext) GetLastApplied() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastApplied
}

func (c *actorContext) SetCommitIndex(i uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitIndex = i
}

func (c *actorContext) GetCommitIndex() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitIndex
}

func (c *actorContext) UpdatePeerIds(cfg ServerConfiguration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.self = cfg
}

func (c *actorContext) GetPeerServerInfo(includeSelf bool) ServerConfiguration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if includeSelf {
		return c.self
	}
	out := ServerConfiguration{Migrated: c.self.Migrated}
	for _, m := range c.self.Voting {
		if m != NodeID(c.id) {
			out.Voting = append(out.Voting, m)
		}
	}
	for _, m := range c.self.NonVoting {
		if m != NodeID(c.id) {
			out.NonVoting = append(out.NonVoting, m)
		}
	}
	return out
}

func (c *actorContext) GetSnapshotManager() SnapshotManager { return c.snapshotMgr }
func (c *actorContext) GetConfigParams() ConfigParams       { return c.config }
func (c *actorContext) GetLogger() Logger                   { return c.logger }
func (c *actorContext) GetId() string                       { return c.id }
