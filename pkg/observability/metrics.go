package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricDocumentsTotal   = "sfcshift.documents.total"
	metricDocumentDuration = "sfcshift.document.duration.seconds"
	metricDocumentsInfl    = "sfcshift.documents.inflight"

	attrKind   = "kind"
	attrStatus = "status"
)

// Document statuses.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// durationBucketBoundaries covers 1ms to 10s.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}

// ConversionMetrics holds the instruments recorded per converted document.
type ConversionMetrics struct {
	documentsTotal   metric.Int64Counter
	documentDuration metric.Float64Histogram
	inflight         metric.Int64UpDownCounter
}

// NewConversionMetrics creates the instruments from the given meter.
func NewConversionMetrics(mt metric.Meter) (*ConversionMetrics, error) {
	total, err := mt.Int64Counter(metricDocumentsTotal,
		metric.WithDescription("Documents processed by kind and status"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDocumentsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricDocumentDuration,
		metric.WithDescription("Per-document conversion duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDocumentDuration, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricDocumentsInfl,
		metric.WithDescription("Documents being converted"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDocumentsInfl, err)
	}

	return &ConversionMetrics{
		documentsTotal:   total,
		documentDuration: duration,
		inflight:         inflight,
	}, nil
}

// RecordDocument records one processed document. Safe on a nil receiver.
func (cm *ConversionMetrics) RecordDocument(ctx context.Context, kind, status string, duration time.Duration) {
	if cm == nil {
		return
	}

	cm.documentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	))

	if status != StatusSkipped {
		cm.documentDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrKind, kind)))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to
// decrement it. Safe on a nil receiver.
func (cm *ConversionMetrics) TrackInflight(ctx context.Context) func() {
	if cm == nil {
		return func() {}
	}

	cm.inflight.Add(ctx, 1)

	return func() {
		cm.inflight.Add(ctx, -1)
	}
}
