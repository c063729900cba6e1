package raft

import "time"

// Metrics captures recovery-layer metric sinks. Trimmed to the signals the
// recovery engine itself produces; replication/election metrics belong to
// the (out-of-scope) collaborators that run after recovery completes.
type Metrics interface {
	IncRecoveryEntriesRecovered(nodeID string, n int)
	IncRecoveryBatchesApplied(nodeID string)
	IncRecoveryMigratedPayload(nodeID string)
	IncRecoverySnapshotApplied(nodeID string)
	IncRecoveryOpportunisticSnapshot(nodeID string, result string)
	IncRecoveryPersistenceError(nodeID, op string)
	ObserveRecoveryDuration(nodeID string, d time.Duration)
	ObserveRecoveryDataPersistenceDuration(nodeID string, d time.Duration)
	SetRecoveryLastAppliedIndex(nodeID string, index uint64)
}

type noopMetrics struct{}

func (noopMetrics) IncRecoveryEntriesRecovered(string, int)            {}
func (noopMetrics) IncRecoveryBatchesApplied(string)                   {}
func (noopMetrics) IncRecoveryMigratedPayload(string)                  {}
func (noopMetrics) IncRecoverySnapshotApplied(string)                  {}
func (noopMetrics) IncRecoveryOpportunisticSnapshot(string, string)    {}
func (noopMetrics) IncRecoveryPersistenceError(string, string)         {}
func (noopMetrics) ObserveRecoveryDuration(string, time.Duration)      {}
func (noopMetrics) ObserveRecoveryDataPersistenceDuration(string, time.Duration) {}
func (noopMetrics) SetRecoveryLastAppliedIndex(string, uint64)         {}

// NewNoopMetrics returns a Metrics implementation that discards everything.
func NewNoopMetrics() Metrics { return noopMetrics{} }
