package raft

import (
	"context"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// RecoveryDriver consumes the ordered recovery event stream and rebuilds
// consensus state and application state through a RaftActorContext and a
// RecoveryCohort. It is single-use: constructed fresh at actor start,
// discarded once Offer returns true for a RecoveryCompletedEvent.
//
// Offer is not reentrant and requires no internal locking: the driver runs
// on a single goroutine, one event at a time, exactly as described for the
// actor's dispatch thread.
type RecoveryDriver struct {
	nodeID  string
	logger  Logger
	metrics Metrics
	tracer  oteltrace.Tracer

	actx   RaftActorContext
	cohort RecoveryCohort

	currentBatchCount                   uint32
	dataRecoveredWithPersistenceDisabled bool
	anyDataRecovered                     bool
	hasMigratedDataRecovered             bool

	totalTimer       *stopwatch
	midRecoveryTimer *stopwatch
}

// NewRecoveryDriver constructs a RecoveryDriver for a single recovery run.
func NewRecoveryDriver(nodeID string, logger Logger, metrics Metrics, tracer oteltrace.Tracer, actx RaftActorContext, cohort RecoveryCohort) *RecoveryDriver {
	if logger == nil {
		logger = NewNoopLogger()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &RecoveryDriver{
		nodeID:  nodeID,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		actx:    actx,
		cohort:  cohort,
	}
}

// Offer consumes one persisted recovery event. It returns true exactly
// once, when the RecoveryCompletedEvent has been fully processed.
//
// Per the source this is modeled on, anyDataRecovered is updated before the
// event is classified — so a stray ServerConfigurationEvent also counts as
// "data recovered" and can suppress a later operator restore (Path C).
// This is intentional, not a bug: operators relying on restore-from-backup
// should be aware that any other recovered event disables it.
func (d *RecoveryDriver) Offer(ctx context.Context, event RecoveryEvent, provider PersistenceProvider) bool {
	if _, isCompleted := event.(RecoveryCompletedEvent); !isCompleted {
		d.anyDataRecovered = true
	}
	if eventCarriesMigratedMarker(event) {
		d.hasMigratedDataRecovered = true
		d.metrics.IncRecoveryMigratedPayload(d.nodeID)
	}

	switch ev := event.(type) {
	case SnapshotOfferEvent:
		d.handleSnapshotOffer(ev, provider)
		return false
	case ReplicatedLogEntryEvent:
		d.handleReplicatedLogEntry(ev, provider)
		return false
	case ApplyJournalEntriesEvent:
		d.handleApplyJournalEntries(ctx, ev, provider)
		return false
	case DeleteEntriesEvent:
		d.handleDeleteEntries(ev, provider)
		return false
	case ServerConfigurationEvent:
		d.actx.UpdatePeerIds(ev.Config)
		return false
	case UpdateElectionTermEvent:
		d.actx.SetTermInfo(ev.TermInfo)
		return false
	case RecoveryCompletedEvent:
		d.handleRecoveryCompleted(ctx, provider)
		return true
	default:
		d.logger.Warn("unknown recovery event, ignoring", "node_id", d.nodeID)
		return false
	}
}

func eventCarriesMigratedMarker(event RecoveryEvent) bool {
	switch ev := event.(type) {
	case SnapshotOfferEvent:
		return ev.Snapshot.State.NeedsMigration()
	case ReplicatedLogEntryEvent:
		return ev.Entry.Payload.IsMigratedFormat()
	case ServerConfigurationEvent:
		return ev.Config.Migrated
	default:
		return false
	}
}

func (d *RecoveryDriver) ensureTimersStarted() {
	if d.totalTimer == nil {
		d.totalTimer = newStopwatch(nil).start()
		if d.actx.GetConfigParams().RecoverySnapshotIntervalSeconds > 0 {
			d.midRecoveryTimer = newStopwatch(nil).start()
		}
	}
}

func (d *RecoveryDriver) handleSnapshotOffer(ev SnapshotOfferEvent, provider PersistenceProvider) {
	d.ensureTimersStarted()

	snap := ev.Snapshot
	for _, entry := range snap.UnappliedEntries {
		if entry.Payload.IsMigratedFormat() {
			d.hasMigratedDataRecovered = true
			d.metrics.IncRecoveryMigratedPayload(d.nodeID)
		}
	}

	if !provider.IsRecoveryApplicable() {
		snap = emptySnapshot(snap.TermInfo, snap.ServerConfig)
	}

	d.actx.SetReplicatedLog(NewLogFromSnapshot(snap))
	d.actx.SetLastApplied(snap.LastAppliedIndex)
	d.actx.SetCommitIndex(snap.LastAppliedIndex)
	d.actx.SetTermInfo(snap.TermInfo)

	if snap.State.NeedsMigration() {
		d.hasMigratedDataRecovered = true
	}
	if !snap.State.IsEmpty() {
		d.cohort.ApplyRecoverySnapshot(snap.State)
		d.metrics.IncRecoverySnapshotApplied(d.nodeID)
	}
	if snap.ServerConfig != nil {
		d.actx.UpdatePeerIds(*snap.ServerConfig)
	}

	d.logger.Info("applied recovery snapshot",
		"node_id", d.nodeID, "snapshot_index", snap.LastIndex, "snapshot_term", snap.LastTerm,
		"last_applied_index", snap.LastAppliedIndex, "unapplied_entries", len(snap.UnappliedEntries))
}

func (d *RecoveryDriver) handleReplicatedLogEntry(ev ReplicatedLogEntryEvent, provider PersistenceProvider) {
	entry := ev.Entry
	if cfg, ok := entry.Payload.(ServerConfiguration); ok {
		d.actx.UpdatePeerIds(cfg)
	}

	if provider.IsRecoveryApplicable() {
		if err := d.actx.GetReplicatedLog().Append(entry); err != nil {
			panic(fmt.Sprintf("raft: corrupt recovery stream, log append invariant violated: %v", err))
		}
	} else if !entry.Payload.IsPersistent() {
		d.dataRecoveredWithPersistenceDisabled = true
	}
}

// handleApplyJournalEntries replays entries lastApplied+1 through ToIndex into
// the cohort. An event whose range a snapshot already covers
// (lastApplied >= ToIndex) is legitimate and leaves the loop empty; an entry
// missing from the log inside the range is logged and ends the loop early.
func (d *RecoveryDriver) handleApplyJournalEntries(ctx context.Context, ev ApplyJournalEntriesEvent, provider PersistenceProvider) {
	if !provider.IsRecoveryApplicable() {
		d.dataRecoveredWithPersistenceDisabled = true
		return
	}

	log := d.actx.GetReplicatedLog()
	lastApplied := d.actx.GetLastApplied()

	for i := lastApplied + 1; i <= ev.ToIndex; i++ {
		entry, ok := log.Get(i)
		if !ok {
			d.logger.Error("missing journal entry during apply, stopping batch early",
				"node_id", d.nodeID, "index", i, "to_index", ev.ToIndex)
			break
		}

		d.batchRecoveredLogEntry(entry)
		lastApplied = i

		snapshotMgr := d.actx.GetSnapshotManager()
		if d.shouldTakeRecoverySnapshot() && !snapshotMgr.IsCapturing() {
			if d.currentBatchCount > 0 {
				d.cohort.ApplyCurrentLogRecoveryBatch()
				d.currentBatchCount = 0
			}
			d.actx.SetLastApplied(lastApplied)
			d.actx.SetCommitIndex(lastApplied)

			if snapshotMgr.Capture(entry.Meta(), -1) {
				d.midRecoveryTimer.reset().start()
			}
		}
	}

	d.actx.SetLastApplied(lastApplied)
	d.actx.SetCommitIndex(lastApplied)
	_ = ctx
}

func (d *RecoveryDriver) batchRecoveredLogEntry(entry Entry) {
	if _, ok := entry.Payload.(ServerConfiguration); ok {
		return
	}

	batchSize := d.actx.GetConfigParams().JournalRecoveryLogBatchSize
	if d.currentBatchCount == 0 {
		d.ensureTimersStarted()
		d.cohort.StartLogRecoveryBatch(batchSize)
	}
	d.cohort.AppendRecoveredLogEntry(entry.Payload)

	d.currentBatchCount++
	d.metrics.IncRecoveryEntriesRecovered(d.nodeID, 1)
	if d.currentBatchCount == batchSize {
		d.cohort.ApplyCurrentLogRecoveryBatch()
		d.metrics.IncRecoveryBatchesApplied(d.nodeID)
		d.currentBatchCount = 0
	}
}

func (d *RecoveryDriver) shouldTakeRecoverySnapshot() bool {
	interval := d.actx.GetConfigParams().RecoverySnapshotIntervalSeconds
	if interval == 0 || d.midRecoveryTimer == nil {
		return false
	}
	elapsed := d.midRecoveryTimer.elapsedDuration()
	return uint64(elapsed/time.Second) >= uint64(interval)
}

func (d *RecoveryDriver) handleDeleteEntries(ev DeleteEntriesEvent, provider PersistenceProvider) {
	if provider.IsRecoveryApplicable() {
		if err := d.actx.GetReplicatedLog().RemoveFrom(ev.FromIndex); err != nil {
			panic(fmt.Sprintf("raft: corrupt recovery stream, log removeFrom invariant violated: %v", err))
		}
	} else {
		d.dataRecoveredWithPersistenceDisabled = true
	}
}

func (d *RecoveryDriver) handleRecoveryCompleted(ctx context.Context, provider PersistenceProvider) {
	var elapsed time.Duration
	if d.totalTimer != nil {
		elapsed = d.totalTimer.stop().elapsedDuration()
		d.metrics.ObserveRecoveryDuration(d.nodeID, elapsed)
	}

	log := d.actx.GetReplicatedLog()
	d.logger.Info("recovery completed",
		"node_id", d.nodeID, "elapsed", elapsed,
		"last_index", log.LastIndex(), "last_term", log.LastTerm(),
		"snapshot_index", log.SnapshotIndex(), "snapshot_term", log.SnapshotTerm(),
		"journal_size", log.Size())

	if d.currentBatchCount > 0 {
		d.cohort.ApplyCurrentLogRecoveryBatch()
		d.metrics.IncRecoveryBatchesApplied(d.nodeID)
		d.currentBatchCount = 0
	}

	switch {
	case d.dataRecoveredWithPersistenceDisabled || (d.hasMigratedDataRecovered && !provider.IsRecoveryApplicable()):
		d.runPathWipeAndSnapshot(ctx, provider)
	case d.hasMigratedDataRecovered:
		d.runPathCaptureLiveSnapshot()
	default:
		d.runPathOptionalOperatorRestore()
	}

	d.metrics.SetRecoveryLastAppliedIndex(d.nodeID, d.actx.GetLastApplied())
}

// runPathWipeAndSnapshot is Path A: build a scrubbed snapshot and truncate
// the journal. Taken when persistence-disabled data was recovered, or a
// migrated-format payload was recovered but persistence is not applicable
// (so there is nowhere safe to write an upgraded copy).
func (d *RecoveryDriver) runPathWipeAndSnapshot(ctx context.Context, provider PersistenceProvider) {
	cfg := d.actx.GetPeerServerInfo(true)
	snap := emptySnapshot(d.actx.TermInfo(), &cfg)

	dw := newStopwatch(nil).start()
	if err := d.tracePersistSaveSnapshot(ctx, provider, snap); err != nil {
		d.logger.Error("wipe-and-snapshot: save snapshot failed", "node_id", d.nodeID, "error", err)
		d.metrics.IncRecoveryPersistenceError(d.nodeID, "save_snapshot")
		return
	}
	if err := d.tracePersistDeleteMessages(ctx, provider, provider.LastSequenceNumber()); err != nil {
		d.logger.Error("wipe-and-snapshot: delete messages failed", "node_id", d.nodeID, "error", err)
		d.metrics.IncRecoveryPersistenceError(d.nodeID, "delete_messages")
		return
	}
	d.metrics.ObserveRecoveryDataPersistenceDuration(d.nodeID, dw.stop().elapsedDuration())
}

// runPathCaptureLiveSnapshot is Path B: upgrade the on-disk format by
// capturing a fresh snapshot of current state.
func (d *RecoveryDriver) runPathCaptureLiveSnapshot() {
	d.actx.GetSnapshotManager().Capture(d.actx.GetReplicatedLog().LastMeta(), -1)
}

// runPathOptionalOperatorRestore is Path C: apply an operator-supplied
// restore snapshot, but only if nothing else was recovered.
func (d *RecoveryDriver) runPathOptionalOperatorRestore() {
	restore := d.cohort.GetRestoreFromSnapshot()
	if restore == nil {
		return
	}
	if d.anyDataRecovered {
		d.logger.Warn("ignoring operator restore snapshot: store already has recovered data",
			"node_id", d.nodeID)
		return
	}
	d.actx.GetSnapshotManager().Apply(ApplySnapshot{Snapshot: *restore})
	d.metrics.IncRecoverySnapshotApplied(d.nodeID)
}
