package kv

import (
	"encoding/json"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/i-melnichenko/consensus-lab/internal/raft"
)

func noopStore() *Store {
	return NewStore(noop.NewTracerProvider().Tracer("test"))
}

func mustEncode(t *testing.T, cmd Command) []byte {
	t.Helper()
	raw, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("json.Marshal(%+v) error = %v", cmd, err)
	}
	return raw
}

func TestCohort_AppendRecoveredLogEntryAppliesApplicationDataOnly(t *testing.T) {
	t.Parallel()

	store := noopStore()
	cohort := NewCohort(store, nil)

	putRaw := mustEncode(t, Command{Type: PutCmd, Key: "a", Value: "1"})
	cohort.AppendRecoveredLogEntry(raft.ApplicationData{Data: putRaw})

	if got, ok := store.Get("a"); !ok || got != "1" {
		t.Fatalf("Get(a) = (%q, %v), want (1, true)", got, ok)
	}
}

func TestCohort_AppendRecoveredLogEntryIgnoresNonApplicationDataPayloads(t *testing.T) {
	t.Parallel()

	store := noopStore()
	cohort := NewCohort(store, nil)

	cohort.AppendRecoveredLogEntry(raft.ServerConfiguration{Voting: []raft.NodeID{"n1"}})
	cohort.AppendRecoveredLogEntry(raft.NoOp{})

	if got, ok := store.Get("a"); ok {
		t.Fatalf("Get(a) = (%q, true), want untouched store after non-ApplicationData payloads", got)
	}
}

func TestCohort_ApplyRecoverySnapshotEmptyStateResetsStore(t *testing.T) {
	t.Parallel()

	store := noopStore()
	cohort := NewCohort(store, nil)

	cohort.AppendRecoveredLogEntry(raft.ApplicationData{Data: mustEncode(t, Command{Type: PutCmd, Key: "a", Value: "1"})})
	cohort.ApplyRecoverySnapshot(raft.EmptyState{})

	if _, ok := store.Get("a"); ok {
		t.Fatalf("Get(a) found a value after EmptyState snapshot, want store reset")
	}
}

func TestCohort_ApplyRecoverySnapshotOpaqueStateRestoresData(t *testing.T) {
	t.Parallel()

	store := noopStore()
	cohort := NewCohort(store, nil)

	seed := noopStore()
	cohort2 := NewCohort(seed, nil)
	cohort2.AppendRecoveredLogEntry(raft.ApplicationData{Data: mustEncode(t, Command{Type: PutCmd, Key: "b", Value: "2"})})
	snapBytes, err := seed.Snapshot(t.Context())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	cohort.ApplyRecoverySnapshot(raft.OpaqueState{Data: snapBytes})

	if got, ok := store.Get("b"); !ok || got != "2" {
		t.Fatalf("Get(b) = (%q, %v), want (2, true) after restoring opaque snapshot", got, ok)
	}
}

func TestCohort_GetRestoreFromSnapshotReturnsInjectedPointer(t *testing.T) {
	t.Parallel()

	restore := &raft.Snapshot{LastIndex: 7}
	cohort := NewCohort(noopStore(), restore)

	if got := cohort.GetRestoreFromSnapshot(); got != restore {
		t.Fatalf("GetRestoreFromSnapshot() = %p, want the injected pointer %p", got, restore)
	}
}

func TestCohort_StartAndApplyBatchAreNoOps(t *testing.T) {
	t.Parallel()

	// StartLogRecoveryBatch/ApplyCurrentLogRecoveryBatch have no state of
	// their own in this cohort; this just documents that calling them is
	// safe and doesn't disturb store contents.
	store := noopStore()
	cohort := NewCohort(store, nil)

	cohort.StartLogRecoveryBatch(10)
	cohort.AppendRecoveredLogEntry(raft.ApplicationData{Data: mustEncode(t, Command{Type: PutCmd, Key: "a", Value: "1"})})
	cohort.ApplyCurrentLogRecoveryBatch()

	if got, ok := store.Get("a"); !ok || got != "1" {
		t.Fatalf("Get(a) = (%q, %v), want (1, true)", got, ok)
	}
}
