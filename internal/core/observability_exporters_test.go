package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"restaurantcore/pkg/domain"
)

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	svc := newTestService(t, WithMetrics(rec))
	ctx := context.Background()

	mustCreate(t, svc.Dishes, domain.Dish{Name: "Arroz"})
	_, _ = svc.Dishes.Create(ctx, domain.Dish{Name: "ARROZ"})
	rec.Observe(ctx, "dish", "", OutcomeOK, time.Second)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("dish", "create", OutcomeOK)); got != 1 {
		t.Fatalf("expected one ok create, got %v", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("dish", "create", OutcomeRejected)); got != 1 {
		t.Fatalf("expected one rejected create, got %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "restaurantcore_service_operation_duration_seconds"); err != nil || n != 1 {
		t.Fatalf("expected one histogram series, got %d (%v)", n, err)
	}

	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := NewPrometheusMetricsRecorder(nil); err != nil {
		t.Fatalf("unregistered recorder: %v", err)
	}
}

func TestJSONTracerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	_, span := tracer.Start(context.Background(), "dish.delete")
	span.End(domain.DependencyError{Entity: domain.EntityDish, ID: 1, Relationship: "menu_items"})
	_, span = tracer.Start(context.Background(), "dish.get")
	span.End(errors.New("disk on fire"))

	entries := tracer.Entries()
	if len(entries) != 2 || entries[0].Status != OutcomeConflict || entries[1].Status != OutcomeError {
		t.Fatalf("unexpected entries %+v", entries)
	}
	dec := json.NewDecoder(&buf)
	var first JSONTraceEntry
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Operation != "dish.delete" || first.Error == "" {
		t.Fatalf("unexpected encoded entry %+v", first)
	}
}
