package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-lending-go/lending/oteladapters"
)

func Test_NewTracingCollector_Construction(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	assert.NotNil(t, collector, "NewTracingCollector should return non-nil collector")
}

func Test_TracingCollector_StartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	// Start a span with attributes
	attrs := map[string]string{
		"operation": "open_loan",
		"table":     "loans",
	}

	ctx, spanCtx := collector.StartSpan(context.Background(), "lending.open_loan", attrs)

	assert.NotNil(t, ctx, "Context should not be nil")
	assert.NotNil(t, spanCtx, "SpanContext should not be nil")

	// Finish the span to capture it
	collector.FinishSpan(spanCtx, "ok", map[string]string{"open_loans": "1"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, "lending.open_loan", span.Name, "Span name should match")

	// Initial attributes
	assertSpanHasAttribute(t, span, "operation", "open_loan")
	assertSpanHasAttribute(t, span, "table", "loans")

	// Final attributes
	assertSpanHasAttribute(t, span, "open_loans", "1")

	assert.Equal(t, codes.Ok, span.Status.Code, "Span should have OK status")
}

func Test_TracingCollector_FinishSpan_ErrorStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "lending.close_loan", nil)
	collector.FinishSpan(spanCtx, "error", map[string]string{"error_type": "loan_not_found"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, codes.Error, span.Status.Code, "Span should have Error status")
	assertSpanHasAttribute(t, span, "error_type", "loan_not_found")
}

func Test_TracingCollector_FinishSpan_ConflictStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "lending.open_loan", nil)
	collector.FinishSpan(spanCtx, "conflict", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	assert.Equal(t, codes.Error, spans[0].Status.Code, "Conflict should map to Error status")
	assert.Equal(t, "Concurrency conflict", spans[0].Status.Description, "Status description should name the conflict")
}

func Test_TracingCollector_FinishSpan_UnknownStatusBecomesAttribute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "lending.most_borrowed", nil)
	collector.FinishSpan(spanCtx, "partial", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	span := spans[0]
	assert.Equal(t, codes.Unset, span.Status.Code, "Unknown status should leave the status code unset")
	assertSpanHasAttribute(t, span, "status", "partial")
}

func Test_TracingCollector_FinishSpan_ForeignSpanContext(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	// A span context from a different collector implementation is ignored
	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, "ok", nil)
	}, "FinishSpan should ignore span contexts it did not create")

	assert.Empty(t, exporter.GetSpans(), "No span should be recorded")
}

func Test_OTelSpanContext_SetStatusAndAddAttribute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	tracer := provider.Tracer("lending")

	collector := oteladapters.NewTracingCollector(tracer)

	_, spanCtx := collector.StartSpan(context.Background(), "lending.pending_overdue", nil)
	spanCtx.AddAttribute("borrower_id", "b-1")
	spanCtx.SetStatus("ok")
	collector.FinishSpan(spanCtx, "ok", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1, "Expected exactly one span")

	assertSpanHasAttribute(t, spans[0], "borrower_id", "b-1")
	assert.Equal(t, codes.Ok, spans[0].Status.Code, "Span should have OK status")
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)         {}
func (foreignSpanContext) AddAttribute(_, _ string) {}

func assertSpanHasAttribute(t *testing.T, span tracetest.SpanStub, key, value string) {
	t.Helper()
	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) && attr.Value.AsString() == value {
			return
		}
	}
	t.Errorf("Span %s is missing attribute %s=%s", span.Name, key, value)
}
