package instrument

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/turbot/steampipe-postgres-sys/version"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "pgsysgen"

// InitTracing installs a global TracerProvider which writes every span to w as JSON.
// Spans are exported synchronously - a generation run is short lived and must not lose
// spans on exit. The returned func flushes and shuts the provider down
func InitTracing(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithSyncer(exporter),
		// Record information about this application in a Resource.
		tracesdk.WithResource(resource.NewSchemaless(
			attribute.String("service.name", TracerName),
			attribute.String("service.version", version.String()),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Printf("[TRACE] tracing initialised")

	return tp.Shutdown, nil
}

func GetTracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

func StartSpan(baseCtx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracer().Start(baseCtx, name, trace.WithAttributes(attrs...))
}
