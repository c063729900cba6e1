package raft

import "testing"

// TestEvents_ImplementRecoveryEvent is a compile-time-adjacent smoke test:
// the real guarantee is enforced by the type system (isRecoveryEvent is
// unexported, so only this package can implement RecoveryEvent), this just
// confirms each constructor actually produces one.
func TestEvents_ImplementRecoveryEvent(t *testing.T) {
	t.Parallel()

	events := []RecoveryEvent{
		SnapshotOfferEvent{Snapshot: Snapshot{LastIndex: 1}},
		ReplicatedLogEntryEvent{Entry: entryAt(1, 1)},
		ApplyJournalEntriesEvent{ToIndex: 1},
		DeleteEntriesEvent{FromIndex: 1},
		ServerConfigurationEvent{Config: ServerConfiguration{Voting: []NodeID{"n1"}}},
		UpdateElectionTermEvent{TermInfo: TermInfo{Term: 1}},
		RecoveryCompletedEvent{},
		UnknownEvent{Kind: "future_kind"},
	}
	if len(events) != 8 {
		t.Fatalf("len(events) = %d, want 8", len(events))
	}
}

func TestUnknownEvent_CarriesOriginalKind(t *testing.T) {
	t.Parallel()

	ev := UnknownEvent{Kind: "pekko.persistence.SomeNewSnapshot"}
	if ev.Kind != "pekko.persistence.SomeNewSnapshot" {
		t.Fatalf("Kind = %q, want the original wire kind preserved", ev.Kind)
	}
}
