package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

var (
	meterProvider *sdkmetric.MeterProvider
	meterMu       sync.Mutex
)

func initMetrics(ctx context.Context, cfg *Config, res *resource.Resource) error {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.CollectorAddr),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(mp)

	meterMu.Lock()
	meterProvider = mp
	meterMu.Unlock()
	return nil
}

func shutdownMetrics(ctx context.Context) error {
	meterMu.Lock()
	mp := meterProvider
	meterProvider = nil
	meterMu.Unlock()

	if mp == nil {
		return nil
	}
	return mp.Shutdown(ctx)
}

// Meter returns a named meter from the global provider (no-op until metrics are enabled)
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Counter is a monotonically increasing int64 instrument
type Counter struct {
	inst metric.Int64Counter
}

// NewCounter creates a counter, falling back to a no-op instrument on error
func NewCounter(m metric.Meter, name, description string) *Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return &Counter{}
	}
	return &Counter{inst: c}
}

// Add increments the counter
func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if c == nil || c.inst == nil {
		return
	}
	c.inst.Add(ctx, n, metric.WithAttributes(attrs...))
}

// Histogram records float64 samples, usually durations in seconds
type Histogram struct {
	inst metric.Float64Histogram
}

// NewHistogram creates a histogram, falling back to a no-op instrument on error
func NewHistogram(m metric.Meter, name, description, unit string) *Histogram {
	h, err := m.Float64Histogram(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return &Histogram{}
	}
	return &Histogram{inst: h}
}

// Record adds a sample
func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	if h == nil || h.inst == nil {
		return
	}
	h.inst.Record(ctx, v, metric.WithAttributes(attrs...))
}

// Since records the seconds elapsed since start
func (h *Histogram) Since(ctx context.Context, start time.Time, attrs ...attribute.KeyValue) {
	h.Record(ctx, time.Since(start).Seconds(), attrs...)
}
