package raft

import (
	"context"
	"errors"
	"fmt"
	"sync"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// ErrNilProvider is returned by NewNode when provider is nil.
var ErrNilProvider = errors.New("raft: nil persistence provider")

// ErrNilCohort is returned by NewNode when cohort is nil.
var ErrNilCohort = errors.New("raft: nil recovery cohort")

// Node is a single Raft replica's recovery-and-status surface: it replays
// the persisted event stream through a RecoveryDriver at construction, then
// exposes the resulting role/status for the (out-of-scope) operating role
// and for operator visibility. Node does not itself implement election or
// replication; those collaborate with the RaftActorContext this Node built.
type Node struct {
	mu sync.Mutex

	id     string
	logger Logger

	actx   RaftActorContext
	cohort RecoveryCohort

	role   Role
	status NodeStatus
	err    error
}

// NewNode constructs a Node, builds its RaftActorContext and SnapshotManager,
// and immediately replays the persisted recovery event stream from provider
// through a fresh RecoveryDriver. Any fault the cohort raises during replay
// propagates out of NewNode: recovery cannot be partially completed
// (spec.md §7).
func NewNode(
	ctx context.Context,
	id string,
	logger Logger,
	metrics Metrics,
	tracer oteltrace.Tracer,
	config ConfigParams,
	provider PersistenceProvider,
	cohort RecoveryCohort,
	doCapture captureFunc,
) (*Node, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if cohort == nil {
		return nil, ErrNilCohort
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if tracer == nil {
		tracer = oteltrace.NewNoopTracerProvider().Tracer("raft")
	}

	n := &Node{
		id:     id,
		logger: logger,
		cohort: cohort,
		role:   Follower,
		status: NodeStatusRecovering,
	}

	actx := NewContext(id, logger, config, nil)
	snapMgr := NewSnapshotManager(id, logger, metrics, tracer, doCapture, func(applied ApplySnapshot) {
		snap := applied.Snapshot
		actx.SetReplicatedLog(NewLogFromSnapshot(snap))
		actx.SetLastApplied(snap.LastAppliedIndex)
		actx.SetCommitIndex(snap.LastAppliedIndex)
		actx.SetTermInfo(snap.TermInfo)
		if !snap.State.IsEmpty() {
			cohort.ApplyRecoverySnapshot(snap.State)
		}
		if snap.ServerConfig != nil {
			actx.UpdatePeerIds(*snap.ServerConfig)
		}
	})
	actx.(*actorContext).snapshotMgr = snapMgr
	n.actx = actx

	if err := n.recover(ctx, id, logger, metrics, tracer, provider, cohort); err != nil {
		n.status = NodeStatusDegraded
		n.err = err
		return n, err
	}

	n.mu.Lock()
	n.role = Follower
	n.status = NodeStatusHealthy
	n.mu.Unlock()

	return n, nil
}

func (n *Node) recover(
	ctx context.Context,
	id string,
	logger Logger,
	metrics Metrics,
	tracer oteltrace.Tracer,
	provider PersistenceProvider,
	cohort RecoveryCohort,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("raft: recovery panicked: %v", r)
		}
	}()

	driver := NewRecoveryDriver(id, logger, metrics, tracer, n.actx, cohort)

	// The journal/snapshot is loaded and replayed regardless of
	// IsRecoveryApplicable: persisted state from before persistence was
	// disabled (or before it becomes inapplicable for some other reason)
	// must still be seen so the driver can scrub it, not silently skipped.
	// The per-event IsRecoveryApplicable() checks inside the driver decide
	// what to keep; this orchestrator just feeds the whole stream through.
	events, loadErr := provider.LoadRecoveryEvents()
	if loadErr != nil {
		return loadErr
	}
	events = append(events, RecoveryCompletedEvent{})

	for _, event := range events {
		if driver.Offer(ctx, event, provider) {
			break
		}
	}
	return nil
}

// Role returns the node's current Raft role.
func (n *Node) Role() Role {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.role
}

// Status reports the node's operational health.
func (n *Node) Status() NodeStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

// AdminState is a snapshot of Node state for operator visibility, e.g. an
// HTTP admin endpoint or a TUI poller.
type AdminState struct {
	ID          string     `json:"id"`
	Role        string     `json:"role"`
	Status      NodeStatus `json:"status"`
	Term        uint64     `json:"term"`
	LastApplied uint64     `json:"last_applied"`
	CommitIndex uint64     `json:"commit_index"`
	LastIndex   uint64     `json:"last_index"`
	Peers       []string   `json:"peers"`
	Err         string     `json:"error,omitempty"`
}

// AdminState returns a point-in-time snapshot of node state for display.
func (n *Node) AdminState() AdminState {
	n.mu.Lock()
	role, status, nodeErr := n.role, n.status, n.err
	n.mu.Unlock()

	ti := n.actx.TermInfo()
	cfg := n.actx.GetPeerServerInfo(true)
	peers := make([]string, 0, len(cfg.Members()))
	for _, m := range cfg.Members() {
		peers = append(peers, string(m))
	}

	state := AdminState{
		ID:          n.id,
		Role:        role.String(),
		Status:      status,
		Term:        ti.Term,
		LastApplied: n.actx.GetLastApplied(),
		CommitIndex: n.actx.GetCommitIndex(),
		LastIndex:   n.actx.GetReplicatedLog().LastIndex(),
		Peers:       peers,
	}
	if nodeErr != nil {
		state.Err = nodeErr.Error()
	}
	return state
}

// Context exposes the underlying RaftActorContext for the (out-of-scope)
// operating role to take over once recovery has completed.
func (n *Node) Context() RaftActorContext { return n.actx }
