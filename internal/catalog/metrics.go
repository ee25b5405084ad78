package catalog

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
)

// Metrics counts the failures the catalog masks from clients.
type Metrics struct {
	partialAggregations atomic.Int64
	childFailures       atomic.Int64
	ambiguousNames      atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	PartialAggregationFailures int64 `json:"partial_aggregation_failures"`
	ChildReconcileFailures     int64 `json:"child_reconcile_failures"`
	AmbiguousNameResolutions   int64 `json:"ambiguous_name_resolutions"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		PartialAggregationFailures: m.partialAggregations.Load(),
		ChildReconcileFailures:     m.childFailures.Load(),
		AmbiguousNameResolutions:   m.ambiguousNames.Load(),
	}
}

func (m *Metrics) addPartialAggregation() {
	if m != nil {
		m.partialAggregations.Add(1)
	}
}

func (m *Metrics) addChildFailure() {
	if m != nil {
		m.childFailures.Add(1)
	}
}

func (m *Metrics) addAmbiguousName() {
	if m != nil {
		m.ambiguousNames.Add(1)
	}
}

type requestIDKey struct{}

// WithRequestID tags ctx so catalog log lines can be correlated with the
// request that caused them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func logf(ctx context.Context, format string, args ...any) {
	if id := RequestIDFrom(ctx); id != "" {
		log.Printf("[%s] %s", id, fmt.Sprintf(format, args...))
		return
	}
	log.Printf(format, args...)
}
