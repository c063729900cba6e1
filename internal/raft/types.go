// Package raft implements the recovery engine of a replicated state-machine
// actor: it reconstructs in-memory consensus state and rebuilds application
// state by replaying persisted snapshots and journal entries through a
// pluggable cohort. Leader election, AppendEntries replication, and wire
// transport are external collaborators and are not implemented here.
package raft

// NodeID identifies a cluster member.
type NodeID string

// Role is the current Raft role of a node.
type Role int

// Node roles. The recovery engine only ever sets Follower; Candidate and
// Leader are reached later by the (out-of-scope) election protocol.
const (
	Follower Role = iota
	Candidate
	Leader
)

// String renders the role for logging.
func (r Role) String() string {
	switch r {
	case Follower:
		return "follower"
	case Candidate:
		return "candidate"
	case Leader:
		return "leader"
	default:
		return "unknown"
	}
}

// NodeStatus reports operational health of the node runtime.
type NodeStatus string

// Runtime health states.
const (
	NodeStatusRecovering NodeStatus = "recovering"
	NodeStatusHealthy    NodeStatus = "healthy"
	NodeStatusDegraded   NodeStatus = "degraded"
)

// TermInfo stores persistent Raft election metadata: the current term and,
// if any, the candidate this node voted for in that term.
type TermInfo struct {
	Term     uint64
	VotedFor NodeID // empty means no vote cast in Term
}
