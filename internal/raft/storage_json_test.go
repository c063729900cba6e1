package raft

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileProvider_AppendAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "node")
	p := NewFileProvider(dir, true)

	cfg := ServerConfiguration{Voting: []NodeID{"n1", "n2"}}
	if _, err := p.AppendJournalEvent(ReplicatedLogEntryEvent{Entry: entryAt(1, 1)}); err != nil {
		t.Fatalf("AppendJournalEvent(entry) error = %v", err)
	}
	if _, err := p.AppendJournalEvent(ServerConfigurationEvent{Config: cfg}); err != nil {
		t.Fatalf("AppendJournalEvent(config) error = %v", err)
	}
	if _, err := p.AppendJournalEvent(ApplyJournalEntriesEvent{ToIndex: 1}); err != nil {
		t.Fatalf("AppendJournalEvent(apply) error = %v", err)
	}

	events, err := p.LoadRecoveryEvents()
	if err != nil {
		t.Fatalf("LoadRecoveryEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("LoadRecoveryEvents() returned %d events, want 3", len(events))
	}

	entryEv, ok := events[0].(ReplicatedLogEntryEvent)
	if !ok || entryEv.Entry.Index != 1 {
		t.Fatalf("events[0] = %+v, want ReplicatedLogEntryEvent at index 1", events[0])
	}
	cfgEv, ok := events[1].(ServerConfigurationEvent)
	if !ok || len(cfgEv.Config.Voting) != 2 {
		t.Fatalf("events[1] = %+v, want ServerConfigurationEvent with 2 voters", events[1])
	}
	applyEv, ok := events[2].(ApplyJournalEntriesEvent)
	if !ok || applyEv.ToIndex != 1 {
		t.Fatalf("events[2] = %+v, want ApplyJournalEntriesEvent to index 1", events[2])
	}
}

func TestFileProvider_LoadRecoveryEventsOnEmptyDirReturnsNoEvents(t *testing.T) {
	t.Parallel()

	p := NewFileProvider(filepath.Join(t.TempDir(), "node"), true)
	events, err := p.LoadRecoveryEvents()
	if err != nil {
		t.Fatalf("LoadRecoveryEvents() on empty dir error = %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("LoadRecoveryEvents() on empty dir = %d events, want 0", len(events))
	}
}

func TestFileProvider_SaveSnapshotPrecedesJournalOnLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "node")
	p := NewFileProvider(dir, true)

	if _, err := p.AppendJournalEvent(ReplicatedLogEntryEvent{Entry: entryAt(6, 2)}); err != nil {
		t.Fatalf("AppendJournalEvent() error = %v", err)
	}

	snap := Snapshot{LastIndex: 5, LastTerm: 2, State: OpaqueState{Data: []byte("state")}}
	if err := p.SaveSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	events, err := p.LoadRecoveryEvents()
	if err != nil {
		t.Fatalf("LoadRecoveryEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("LoadRecoveryEvents() returned %d events, want 2", len(events))
	}
	offer, ok := events[0].(SnapshotOfferEvent)
	if !ok || offer.Snapshot.LastIndex != 5 {
		t.Fatalf("events[0] = %+v, want SnapshotOfferEvent at index 5", events[0])
	}
	if _, ok := events[1].(ReplicatedLogEntryEvent); !ok {
		t.Fatalf("events[1] = %T, want ReplicatedLogEntryEvent", events[1])
	}
}

func TestFileProvider_DeleteMessagesPrunesJournalUpToSequence(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "node")
	p := NewFileProvider(dir, true)

	seq1, _ := p.AppendJournalEvent(ReplicatedLogEntryEvent{Entry: entryAt(1, 1)})
	_, _ = p.AppendJournalEvent(ReplicatedLogEntryEvent{Entry: entryAt(2, 1)})

	if err := p.DeleteMessages(context.Background(), seq1); err != nil {
		t.Fatalf("DeleteMessages() error = %v", err)
	}

	events, err := p.LoadRecoveryEvents()
	if err != nil {
		t.Fatalf("LoadRecoveryEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("LoadRecoveryEvents() after delete returned %d events, want 1", len(events))
	}
	entryEv, ok := events[0].(ReplicatedLogEntryEvent)
	if !ok || entryEv.Entry.Index != 2 {
		t.Fatalf("events[0] = %+v, want entry at index 2", events[0])
	}
}

func TestFileProvider_LastSequenceNumberReflectsJournal(t *testing.T) {
	t.Parallel()

	p := NewFileProvider(filepath.Join(t.TempDir(), "node"), true)
	if got := p.LastSequenceNumber(); got != 0 {
		t.Fatalf("LastSequenceNumber() on empty journal = %d, want 0", got)
	}

	seq, err := p.AppendJournalEvent(ReplicatedLogEntryEvent{Entry: entryAt(1, 1)})
	if err != nil {
		t.Fatalf("AppendJournalEvent() error = %v", err)
	}
	if got := p.LastSequenceNumber(); got != seq {
		t.Fatalf("LastSequenceNumber() = %d, want %d", got, seq)
	}
}

func TestFileProvider_UnknownJournalKindDecodesAsUnknownEvent(t *testing.T) {
	t.Parallel()

	seq := uint64(1)
	rec := journalRecord{Seq: seq, Kind: "some_future_kind"}
	ev, err := rec.toEvent()
	if err != nil {
		t.Fatalf("toEvent() error = %v", err)
	}
	unknown, ok := ev.(UnknownEvent)
	if !ok || unknown.Kind != "some_future_kind" {
		t.Fatalf("toEvent() = %+v, want UnknownEvent{Kind: some_future_kind}", ev)
	}
}
