package raft

import (
	"errors"
	"fmt"
)

// ErrOutOfOrder is returned by Append when entry.Index is not the next
// contiguous index after the current last index.
var ErrOutOfOrder = errors.New("raft: log append out of order")

// ErrBeforeSnapshot is returned by RemoveFrom when index is at or before the
// log's current snapshot index — those entries no longer exist in the log.
var ErrBeforeSnapshot = errors.New("raft: remove index at or before snapshot")

// EntryMeta identifies a position in the log by index and term.
type EntryMeta struct {
	Index uint64
	Term  uint64
}

// Entry is a single entry in the replicated log.
type Entry struct {
	Index   uint64
	Term    uint64
	Payload Payload
	Size    uint64
}

// Meta returns the EntryMeta for this entry.
func (e Entry) Meta() EntryMeta {
	return EntryMeta{Index: e.Index, Term: e.Term}
}

// Log is an append-only, truncatable, snapshot-anchored sequence of entries.
//
// Log is not safe for concurrent use: the owning actor (the RecoveryDriver
// during recovery, the replication engine afterward) is expected to
// serialize access, exactly as the single-threaded cooperative model in
// spec.md §5 describes. Entries are contiguous starting at
// snapshotIndex+1; Term is expected (not enforced here) to be
// non-decreasing across increasing Index.
type Log struct {
	snapshotIndex uint64
	snapshotTerm  uint64
	entries       []Entry
}

// NewLog returns an empty log anchored at snapshot index/term 0.
func NewLog() *Log {
	return &Log{}
}

// NewLogFromSnapshot constructs a log seeded from a snapshot's unapplied
// entries, anchored at the snapshot's last index/term. This is the Go
// equivalent of ReplicatedLogImpl.newInstance in the original source.
func NewLogFromSnapshot(snap Snapshot) *Log {
	return &Log{
		snapshotIndex: snap.LastIndex,
		snapshotTerm:  snap.LastTerm,
		entries:       cloneEntries(snap.UnappliedEntries),
	}
}

// Append adds entry to the end of the log. entry.Index must equal
// lastIndex()+1 (or snapshotIndex+1 if the log is empty).
func (l *Log) Append(entry Entry) error {
	want := l.LastIndex() + 1
	if entry.Index != want {
		return fmt.Errorf("%w: got index %d, want %d", ErrOutOfOrder, entry.Index, want)
	}
	l.entries = append(l.entries, entry)
	return nil
}

// RemoveFrom drops all entries with Index >= index. It is a no-op if index
// is beyond the current last index, and fails if index is at or before the
// snapshot index (those entries are already compacted away, not merely
// absent).
func (l *Log) RemoveFrom(index uint64) error {
	if index > l.LastIndex()+1 {
		return nil
	}
	if index <= l.snapshotIndex {
		return fmt.Errorf("%w: index %d, snapshot index %d", ErrBeforeSnapshot, index, l.snapshotIndex)
	}
	keep := index - l.snapshotIndex - 1
	if keep > uint64(len(l.entries)) {
		keep = uint64(len(l.entries))
	}
	l.entries = l.entries[:keep]
	return nil
}

// Get returns the entry at index, or (Entry{}, false) if index is outside
// (snapshotIndex, lastIndex].
func (l *Log) Get(index uint64) (Entry, bool) {
	if index <= l.snapshotIndex || index > l.LastIndex() {
		return Entry{}, false
	}
	return l.entries[index-l.snapshotIndex-1], true
}

// Size returns the number of entries held (not counting the snapshot).
func (l *Log) Size() uint64 {
	return uint64(len(l.entries))
}

// LastIndex returns the index of the last entry, or snapshotIndex if empty.
func (l *Log) LastIndex() uint64 {
	return l.snapshotIndex + uint64(len(l.entries))
}

// LastTerm returns the term of the last entry, or snapshotTerm if empty.
func (l *Log) LastTerm() uint64 {
	if len(l.entries) == 0 {
		return l.snapshotTerm
	}
	return l.entries[len(l.entries)-1].Term
}

// SnapshotIndex returns the index covered by the current snapshot anchor.
func (l *Log) SnapshotIndex() uint64 { return l.snapshotIndex }

// SnapshotTerm returns the term covered by the current snapshot anchor.
func (l *Log) SnapshotTerm() uint64 { return l.snapshotTerm }

// LastMeta returns the EntryMeta for the last log position (entry or
// snapshot anchor if the log is empty).
func (l *Log) LastMeta() EntryMeta {
	return EntryMeta{Index: l.LastIndex(), Term: l.LastTerm()}
}

func cloneEntries(src []Entry) []Entry {
	if len(src) == 0 {
		return nil
	}
	dst := make([]Entry, len(src))
	copy(dst, src)
	return dst
}
