package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const usecaseSpanPrefix = "aflstats."

var reconcileTracer = otel.Tracer("github.com/riskibarqy/afl-stats/internal/usecase")

// startUsecaseSpan opens "aflstats.<name>" under an existing span. Without a
// recording parent it returns ctx with a non-recording span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	name = strings.TrimSpace(name)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return reconcileTracer.Start(ctx, usecaseSpanName(name), trace.WithAttributes(attrs...))
}

func usecaseSpanName(name string) string {
	if strings.HasPrefix(name, usecaseSpanPrefix) {
		return name
	}
	return usecaseSpanPrefix + name
}

func datasetAttrs(datasetID string, facts int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("afl.dataset_id", datasetID),
		attribute.Int("afl.facts", facts),
	}
}
