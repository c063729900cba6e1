package raft

import (
	"context"
	"sync"
)

// InMemoryProvider keeps journal and snapshot state in memory, for tests and
// single-process dev usage.
type InMemoryProvider struct {
	mu sync.Mutex

	recoveryApplicable bool
	events             []RecoveryEvent
	lastSeqNr          uint64
	deletedThrough     uint64
}

// NewInMemoryProvider returns a PersistenceProvider backed by an in-memory
// event log, seeded with the events LoadRecoveryEvents should replay.
func NewInMemoryProvider(recoveryApplicable bool, seed []RecoveryEvent) *InMemoryProvider {
	return &InMemoryProvider{
		recoveryApplicable: recoveryApplicable,
		events:             append([]RecoveryEvent(nil), seed...),
	}
}

func (p *InMemoryProvider) IsRecoveryApplicable() bool { return p.recoveryApplicable }

func (p *InMemoryProvider) LoadRecoveryEvents() ([]RecoveryEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RecoveryEvent(nil), p.events...), nil
}

func (p *InMemoryProvider) SaveSnapshot(_ context.Context, snap Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	filtered := p.events[:0:0]
	for _, e := range p.events {
		if _, ok := e.(SnapshotOfferEvent); ok {
			continue
		}
		filtered = append(filtered, e)
	}
	p.events = append([]RecoveryEvent{SnapshotOfferEvent{Snapshot: snap}}, filtered...)
	return nil
}

// DeleteMessages records sequenceNr as a high-water mark only: no event is
// removed from what LoadRecoveryEvents returns. Seed events carry no
// sequence number; only Append advances LastSequenceNumber.
func (p *InMemoryProvider) DeleteMessages(_ context.Context, sequenceNr uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sequenceNr > p.deletedThrough {
		p.deletedThrough = sequenceNr
	}
	return nil
}

func (p *InMemoryProvider) LastSequenceNumber() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeqNr
}

// Append adds an event to the tail of the in-memory journal and assigns it
// the next sequence number, for use by tests building up a scenario.
func (p *InMemoryProvider) Append(e RecoveryEvent) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	p.lastSeqNr++
	return p.lastSeqNr
}
