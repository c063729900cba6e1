package raft

import (
	"sync"
	"time"
)

func newTestConfigParams(batchSize, snapshotIntervalSeconds uint32) ConfigParams {
	return ConfigParams{
		JournalRecoveryLogBatchSize:     batchSize,
		RecoverySnapshotIntervalSeconds: snapshotIntervalSeconds,
	}
}

func newTestContext(config ConfigParams) RaftActorContext {
	return NewContext("n1", NewNoopLogger(), config, nil)
}

func newTestContextWithSnapshotManager(config ConfigParams, snapMgr SnapshotManager) RaftActorContext {
	return NewContext("n1", NewNoopLogger(), config, snapMgr)
}

func newTestDriver(actx RaftActorContext, cohort RecoveryCohort) *RecoveryDriver {
	return NewRecoveryDriver("n1", NewNoopLogger(), NewNoopMetrics(), testTracer, actx, cohort)
}

// fakeSnapshotManager is a hand-rolled SnapshotManager test double: unlike
// MockRecoveryCohort, tests here care about simple state (was Capture
// called, was it refused) rather than call-order expectations, so a plain
// struct is clearer than a generated mock.
type fakeSnapshotManager struct {
	capturing bool
	captures  []EntryMeta
	captureOK bool
	applied   []ApplySnapshot
}

func (f *fakeSnapshotManager) IsCapturing() bool { return f.capturing }

func (f *fakeSnapshotManager) Capture(meta EntryMeta, replicatedToAllIndex int64) bool {
	f.captures = append(f.captures, meta)
	return f.captureOK
}

func (f *fakeSnapshotManager) Apply(snap ApplySnapshot) {
	f.applied = append(f.applied, snap)
}

// fakeMetrics records call counts under a mutex, since some of the paths
// exercising it (SnapshotManager.Capture) run on their own goroutine.
type fakeMetrics struct {
	mu sync.Mutex

	entriesRecovered       int
	batchesApplied         int
	migratedPayload        int
	snapshotApplied        int
	opportunisticSnapshots []string
	persistenceErrors      []string
	lastAppliedIndex       uint64
}

func (f *fakeMetrics) IncRecoveryEntriesRecovered(_ string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entriesRecovered += n
}

func (f *fakeMetrics) IncRecoveryBatchesApplied(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchesApplied++
}

func (f *fakeMetrics) IncRecoveryMigratedPayload(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.migratedPayload++
}

func (f *fakeMetrics) IncRecoverySnapshotApplied(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotApplied++
}

func (f *fakeMetrics) IncRecoveryOpportunisticSnapshot(_ string, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opportunisticSnapshots = append(f.opportunisticSnapshots, result)
}

func (f *fakeMetrics) IncRecoveryPersistenceError(_, op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persistenceErrors = append(f.persistenceErrors, op)
}

func (f *fakeMetrics) ObserveRecoveryDuration(string, time.Duration) {}

func (f *fakeMetrics) ObserveRecoveryDataPersistenceDuration(string, time.Duration) {}

func (f *fakeMetrics) SetRecoveryLastAppliedIndex(_ string, index uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAppliedIndex = index
}

func (f *fakeMetrics) opportunisticCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opportunisticSnapshots)
}

func (f *fakeMetrics) lastOpportunisticResult() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opportunisticSnapshots) == 0 {
		return ""
	}
	return f.opportunisticSnapshots[len(f.opportunisticSnapshots)-1]
}
