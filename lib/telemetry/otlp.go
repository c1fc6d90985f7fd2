package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// endpointConfig selects one OTLP connection; grpc wins when both are
// set.
type endpointConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

type otlpConfig struct {
	Traces  endpointConfig `json:"traces"`
	Metrics endpointConfig `json:"metrics"`
}

// config is the shape of telemetry.json5.
type config struct {
	Otlp otlpConfig `json:"otlp"`
}

const exporterDialTimeout = time.Second * 3
const metricInterval = time.Second * 5

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, c config) (*trace.TracerProvider, error) {
	exporter, err := newTraceExporter(ctx, c.Otlp.Traces)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newTraceExporter(ctx context.Context, endpoint endpointConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	if endpoint.GrpcEndpoint != "" {
		slog.Info("exporting traces",
			"type", "grpc", "endpoint", endpoint.GrpcEndpoint)
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(endpoint.GrpcEndpoint),
			otlptracegrpc.WithHeaders(endpoint.Headers),
		)
	}

	slog.Info("exporting traces",
		"type", "http", "endpoint", endpoint.HttpEndpoint)
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(endpoint.HttpEndpoint),
		otlptracehttp.WithHeaders(endpoint.Headers),
	)
}

func newMetricProvider(ctx context.Context, r *resource.Resource, c config) (*metric.MeterProvider, error) {
	exporter, err := newMetricExporter(ctx, c.Otlp.Metrics)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(
			exporter,
			metric.WithInterval(metricInterval),
		)),
		metric.WithResource(r),
	), nil
}

func newMetricExporter(ctx context.Context, endpoint endpointConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	if endpoint.GrpcEndpoint != "" {
		slog.Info("exporting metrics",
			"type", "grpc", "endpoint", endpoint.GrpcEndpoint)
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(endpoint.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(endpoint.Headers),
		)
	}

	slog.Info("exporting metrics",
		"type", "http", "endpoint", endpoint.HttpEndpoint)
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(endpoint.HttpEndpoint),
		otlpmetrichttp.WithHeaders(endpoint.Headers),
	)
}
