// Package telemetry exports mutation metrics over OTLP/gRPC. With no endpoint
// configured the instruments still work but nothing leaves the process.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "timeline"
	serviceVersion = "0.1.0"

	MetricMutations       = "timeline_mutations_total"
	MetricMutationLatency = "timeline_mutation_latency_seconds"
)

// Config holds the OTLP exporter settings.
type Config struct {
	Endpoint string
	Insecure bool
}

// Recorder records one observation per finished mutation.
type Recorder struct {
	provider  *sdkmetric.MeterProvider
	mutations metric.Int64Counter
	latency   metric.Float64Histogram
}

// New creates a recorder. When cfg.Endpoint is empty no exporter is started.
func New(ctx context.Context, cfg Config) (*Recorder, error) {
	if cfg.Endpoint == "" {
		return NewWithReader(ctx)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}
	return NewWithReader(ctx, sdkmetric.NewPeriodicReader(exp))
}

// NewWithReader creates a recorder whose provider feeds the given readers.
func NewWithReader(ctx context.Context, readers ...sdkmetric.Reader) (*Recorder, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	provider := sdkmetric.NewMeterProvider(opts...)
	meter := provider.Meter(serviceName)

	mutations, err := meter.Int64Counter(
		MetricMutations,
		metric.WithDescription("Mutations finished, by operation and outcome status"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mutations counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		MetricMutationLatency,
		metric.WithDescription("Remote update round-trip time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating latency histogram: %w", err)
	}

	return &Recorder{provider: provider, mutations: mutations, latency: latency}, nil
}

// RecordMutation counts a mutation. Latency is only recorded for mutations
// that reached the remote sink.
func (r *Recorder) RecordMutation(ctx context.Context, op, status string, latency time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("status", status),
	)
	r.mutations.Add(ctx, 1, opt)
	if latency > 0 {
		r.latency.Record(ctx, latency.Seconds(), opt)
	}
}

// Shutdown flushes pending metrics and stops the exporter.
func (r *Recorder) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}
