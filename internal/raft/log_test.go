package raft

import (
	"errors"
	"testing"
)

func entryAt(index, term uint64) Entry {
	return Entry{Index: index, Term: term, Payload: ApplicationData{Data: []byte("v")}}
}

func TestLog_AppendContiguous(t *testing.T) {
	t.Parallel()

	l := NewLog()
	if err := l.Append(entryAt(1, 1)); err != nil {
		t.Fatalf("Append(1) error = %v", err)
	}
	if err := l.Append(entryAt(2, 1)); err != nil {
		t.Fatalf("Append(2) error = %v", err)
	}
	if got := l.LastIndex(); got != 2 {
		t.Fatalf("LastIndex() = %d, want 2", got)
	}
	if got := l.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
}

func TestLog_AppendOutOfOrder(t *testing.T) {
	t.Parallel()

	l := NewLog()
	if err := l.Append(entryAt(1, 1)); err != nil {
		t.Fatalf("Append(1) error = %v", err)
	}
	if err := l.Append(entryAt(3, 1)); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("Append(3) error = %v, want ErrOutOfOrder", err)
	}
}

func TestLog_EmptyLogStartsAtIndexOne(t *testing.T) {
	t.Parallel()

	l := NewLog()
	if got := l.LastIndex(); got != 0 {
		t.Fatalf("empty log LastIndex() = %d, want 0", got)
	}
	if err := l.Append(entryAt(1, 1)); err != nil {
		t.Fatalf("Append(1) on empty log error = %v", err)
	}
}

func TestLog_GetReturnsFalseOutsideRange(t *testing.T) {
	t.Parallel()

	l := NewLog()
	_ = l.Append(entryAt(1, 1))

	if _, ok := l.Get(0); ok {
		t.Fatalf("Get(0) ok = true, want false")
	}
	if _, ok := l.Get(2); ok {
		t.Fatalf("Get(2) ok = true, want false")
	}
	entry, ok := l.Get(1)
	if !ok || entry.Index != 1 {
		t.Fatalf("Get(1) = %+v, %v, want index 1, true", entry, ok)
	}
}

func TestLog_RemoveFromTruncates(t *testing.T) {
	t.Parallel()

	l := NewLog()
	_ = l.Append(entryAt(1, 1))
	_ = l.Append(entryAt(2, 1))
	_ = l.Append(entryAt(3, 1))

	if err := l.RemoveFrom(2); err != nil {
		t.Fatalf("RemoveFrom(2) error = %v", err)
	}
	if got := l.LastIndex(); got != 1 {
		t.Fatalf("LastIndex() after RemoveFrom(2) = %d, want 1", got)
	}
}

func TestLog_RemoveFromBeyondLastIsNoOp(t *testing.T) {
	t.Parallel()

	l := NewLog()
	_ = l.Append(entryAt(1, 1))

	if err := l.RemoveFrom(5); err != nil {
		t.Fatalf("RemoveFrom(5) error = %v", err)
	}
	if got := l.LastIndex(); got != 1 {
		t.Fatalf("LastIndex() after no-op RemoveFrom = %d, want 1", got)
	}
}

func TestLog_RemoveFromAtOrBeforeSnapshotFails(t *testing.T) {
	t.Parallel()

	snap := Snapshot{LastIndex: 5, LastTerm: 2, State: EmptyState{}}
	l := NewLogFromSnapshot(snap)

	if err := l.RemoveFrom(5); !errors.Is(err, ErrBeforeSnapshot) {
		t.Fatalf("RemoveFrom(5) error = %v, want ErrBeforeSnapshot", err)
	}
	if err := l.RemoveFrom(3); !errors.Is(err, ErrBeforeSnapshot) {
		t.Fatalf("RemoveFrom(3) error = %v, want ErrBeforeSnapshot", err)
	}
}

func TestLog_NewLogFromSnapshotSeedsAnchorAndEntries(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		LastIndex:        5,
		LastTerm:         2,
		State:            EmptyState{},
		UnappliedEntries: []Entry{entryAt(6, 2), entryAt(7, 2)},
	}
	l := NewLogFromSnapshot(snap)

	if got := l.SnapshotIndex(); got != 5 {
		t.Fatalf("SnapshotIndex() = %d, want 5", got)
	}
	if got := l.LastIndex(); got != 7 {
		t.Fatalf("LastIndex() = %d, want 7", got)
	}
	entry, ok := l.Get(6)
	if !ok || entry.Index != 6 {
		t.Fatalf("Get(6) = %+v, %v, want index 6, true", entry, ok)
	}

	// Mutating the source snapshot's slice must not affect the log.
	snap.UnappliedEntries[0] = entryAt(99, 99)
	entry, _ = l.Get(6)
	if entry.Index != 6 {
		t.Fatalf("log entry mutated via shared backing array: got index %d", entry.Index)
	}
}

func TestLog_LastMeta(t *testing.T) {
	t.Parallel()

	l := NewLog()
	if got := l.LastMeta(); got != (EntryMeta{Index: 0, Term: 0}) {
		t.Fatalf("empty log LastMeta() = %+v, want zero value", got)
	}

	_ = l.Append(entryAt(1, 3))
	if got := l.LastMeta(); got != (EntryMeta{Index: 1, Term: 3}) {
		t.Fatalf("LastMeta() = %+v, want {1 3}", got)
	}
}
