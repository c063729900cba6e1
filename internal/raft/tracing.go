package raft

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func (d *RecoveryDriver) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	ctx, span := d.tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("raft.node_id", d.nodeID))
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	return ctx, span
}

func spanRecordError(span oteltrace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}

func (d *RecoveryDriver) tracePersistSaveSnapshot(ctx context.Context, provider PersistenceProvider, snap Snapshot) error {
	_, span := d.startSpan(
		ctx,
		"raft.recovery.SaveSnapshot",
		attribute.Int64("raft.snapshot.last_index", int64(snap.LastIndex)),
		attribute.Int64("raft.snapshot.last_term", int64(snap.LastTerm)),
	)
	defer span.End()
	err := provider.SaveSnapshot(ctx, snap)
	spanRecordError(span, err)
	return err
}

func (d *RecoveryDriver) tracePersistDeleteMessages(ctx context.Context, provider PersistenceProvider, sequenceNr uint64) error {
	_, span := d.startSpan(
		ctx,
		"raft.recovery.DeleteMessages",
		attribute.Int64("raft.sequence_nr", int64(sequenceNr)),
	)
	defer span.End()
	err := provider.DeleteMessages(ctx, sequenceNr)
	spanRecordError(span, err)
	return err
}
