package embeddings

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestMetrics_RecordEmbed(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))

	m := &Metrics{
		meter:  mp.Meter(instrumentationName),
		logger: zap.NewNop(),
	}
	m.init()

	ctx := context.Background()

	m.RecordEmbed(ctx, "remote", "primary", 100*time.Millisecond, nil)
	m.RecordEmbed(ctx, "inference_api", "fallback", 250*time.Millisecond, nil)
	m.RecordEmbed(ctx, "remote", "primary", 25*time.Millisecond, errors.New("boom"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected scope metrics, got none")
	}

	foundDuration := false
	foundErrors := false

	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			switch md.Name {
			case "embedrelay.embedding.generation_duration_seconds":
				foundDuration = true
				if hist, ok := md.Data.(metricdata.Histogram[float64]); ok {
					total := uint64(0)
					for _, dp := range hist.DataPoints {
						total += dp.Count
						if _, ok := dp.Attributes.Value(attribute.Key("provider")); !ok {
							t.Error("duration data point missing provider attribute")
						}
						if _, ok := dp.Attributes.Value(attribute.Key("operation")); !ok {
							t.Error("duration data point missing operation attribute")
						}
					}
					if total != 3 {
						t.Errorf("expected 3 duration recordings, got %d", total)
					}
				}
			case "embedrelay.embedding.errors_total":
				foundErrors = true
				if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
					total := int64(0)
					for _, dp := range sum.DataPoints {
						total += dp.Value
					}
					if total != 1 {
						t.Errorf("expected 1 error, got %d", total)
					}
				}
			}
		}
	}

	if !foundDuration {
		t.Error("duration histogram not found")
	}
	if !foundErrors {
		t.Error("errors counter not found")
	}
}

func TestMetrics_RecordFallback(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))

	m := &Metrics{
		meter:  mp.Meter(instrumentationName),
		logger: zap.NewNop(),
	}
	m.init()

	ctx := context.Background()
	m.RecordFallback(ctx, "remote", "inference_api")
	m.RecordFallback(ctx, "remote", "local")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != "embedrelay.embedding.fallbacks_total" {
				continue
			}
			found = true
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				if len(sum.DataPoints) != 2 {
					t.Errorf("expected 2 labeled data points, got %d", len(sum.DataPoints))
				}
			}
		}
	}
	if !found {
		t.Error("fallbacks counter not found")
	}
}
