//revive:disable:var-naming
//revive:disable:exported
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exposes recovery-engine metrics and can be injected into
// internal/raft through method set compatibility, without that package
// importing this one.
type Prometheus struct {
	recoveryEntriesRecoveredTotal    *prometheus.CounterVec
	recoveryBatchesAppliedTotal      *prometheus.CounterVec
	recoveryMigratedPayloadTotal     *prometheus.CounterVec
	recoverySnapshotAppliedTotal     *prometheus.CounterVec
	recoveryOpportunisticSnapshot    *prometheus.CounterVec
	recoveryPersistenceErrorTotal    *prometheus.CounterVec
	recoveryDuration                 *prometheus.HistogramVec
	recoveryDataPersistenceDuration  *prometheus.HistogramVec
	recoveryLastAppliedIndex         *prometheus.GaugeVec
}

// NewPrometheus constructs and registers the recovery metric collectors
// against reg, or against the default registerer if reg is nil.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Prometheus{
		recoveryEntriesRecoveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "entries_recovered_total",
				Help:      "Number of log entries replayed into the cohort during recovery.",
			},
			[]string{"node_id"},
		),
		recoveryBatchesAppliedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "batches_applied_total",
				Help:      "Number of recovery batches flushed to the cohort.",
			},
			[]string{"node_id"},
		),
		recoveryMigratedPayloadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "migrated_payload_total",
				Help:      "Number of recovered payloads carrying an older on-disk format marker.",
			},
			[]string{"node_id"},
		),
		recoverySnapshotAppliedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "snapshot_applied_total",
				Help:      "Number of snapshots applied during recovery (offered or operator-restored).",
			},
			[]string{"node_id"},
		),
		recoveryOpportunisticSnapshot: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "opportunistic_snapshot_total",
				Help:      "Outcome of mid-recovery and completion-time snapshot capture attempts.",
			},
			[]string{"node_id", "result"},
		),
		recoveryPersistenceErrorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "persistence_error_total",
				Help:      "Persistence provider failures encountered during recovery, by operation.",
			},
			[]string{"node_id", "op"},
		),
		recoveryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "duration_seconds",
				Help:      "Total wall-clock time from the first recovered event to RecoveryCompleted.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"node_id"},
		),
		recoveryDataPersistenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "data_persistence_duration_seconds",
				Help:      "Time spent in the wipe-and-snapshot persistence path at RecoveryCompleted.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"node_id"},
		),
		recoveryLastAppliedIndex: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "consensuslab",
				Subsystem: "recovery",
				Name:      "last_applied_index",
				Help:      "Last-applied log index after recovery completed.",
			},
			[]string{"node_id"},
		),
	}

	if err := m.register(reg); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Prometheus) register(reg prometheus.Registerer) error {
	if err := registerOrReuseCounterVec(reg, &m.recoveryEntriesRecoveredTotal); err != nil {
		return fmt.Errorf("register recovery entries counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.recoveryBatchesAppliedTotal); err != nil {
		return fmt.Errorf("register recovery batches counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.recoveryMigratedPayloadTotal); err != nil {
		return fmt.Errorf("register recovery migrated payload counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.recoverySnapshotAppliedTotal); err != nil {
		return fmt.Errorf("register recovery snapshot applied counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.recoveryOpportunisticSnapshot); err != nil {
		return fmt.Errorf("register recovery opportunistic snapshot counter: %w", err)
	}
	if err := registerOrReuseCounterVec(reg, &m.recoveryPersistenceErrorTotal); err != nil {
		return fmt.Errorf("register recovery persistence error counter: %w", err)
	}
	if err := registerOrReuseHistogramVec(reg, &m.recoveryDuration); err != nil {
		return fmt.Errorf("register recovery duration histogram: %w", err)
	}
	if err := registerOrReuseHistogramVec(reg, &m.recoveryDataPersistenceDuration); err != nil {
		return fmt.Errorf("register recovery data persistence duration histogram: %w", err)
	}
	if err := registerOrReuseGaugeVec(reg, &m.recoveryLastAppliedIndex); err != nil {
		return fmt.Errorf("register recovery last applied index gauge: %w", err)
	}
	return nil
}

func registerOrReuseCounterVec(reg prometheus.Registerer, c **prometheus.CounterVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func registerOrReuseHistogramVec(reg prometheus.Registerer, c **prometheus.HistogramVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func registerOrReuseGaugeVec(reg prometheus.Registerer, c **prometheus.GaugeVec) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(*prometheus.GaugeVec)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func (m *Prometheus) IncRecoveryEntriesRecovered(nodeID string, n int) {
	m.recoveryEntriesRecoveredTotal.WithLabelValues(nodeID).Add(float64(n))
}

func (m *Prometheus) IncRecoveryBatchesApplied(nodeID string) {
	m.recoveryBatchesAppliedTotal.WithLabelValues(nodeID).Inc()
}

func (m *Prometheus) IncRecoveryMigratedPayload(nodeID string) {
	m.recoveryMigratedPayloadTotal.WithLabelValues(nodeID).Inc()
}

func (m *Prometheus) IncRecoverySnapshotApplied(nodeID string) {
	m.recoverySnapshotAppliedTotal.WithLabelValues(nodeID).Inc()
}

func (m *Prometheus) IncRecoveryOpportunisticSnapshot(nodeID, result string) {
	m.recoveryOpportunisticSnapshot.WithLabelValues(nodeID, result).Inc()
}

func (m *Prometheus) IncRecoveryPersistenceError(nodeID, op string) {
	m.recoveryPersistenceErrorTotal.WithLabelValues(nodeID, op).Inc()
}

func (m *Prometheus) ObserveRecoveryDuration(nodeID string, d time.Duration) {
	m.recoveryDuration.WithLabelValues(nodeID).Observe(d.Seconds())
}

func (m *Prometheus) ObserveRecoveryDataPersistenceDuration(nodeID string, d time.Duration) {
	m.recoveryDataPersistenceDuration.WithLabelValues(nodeID).Observe(d.Seconds())
}

func (m *Prometheus) SetRecoveryLastAppliedIndex(nodeID string, index uint64) {
	m.recoveryLastAppliedIndex.WithLabelValues(nodeID).Set(float64(index))
}
