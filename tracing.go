// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/safeballot/safeballot/cliparse"
)

// setupTracing installs the global tracer provider. OTLP/HTTP export is
// configured through the standard OTEL_EXPORTER_OTLP_* variables.
// Without -tracing or -tracing-stdout the global no-op provider stays.
func setupTracing(ctx context.Context, cfg cliparse.Config) (func(context.Context) error, error) {
	if !cfg.Tracing && !cfg.TracingStdout {
		return func(context.Context) error { return nil }, nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	if cfg.TracingStdout {
		exporter, err = stdouttrace.New()
	} else {
		exporter, err = otlptracehttp.New(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", programName),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
