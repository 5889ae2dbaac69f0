package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// SpanRecord is one recorded span with its lifecycle data.
type SpanRecord struct {
	Name       string
	StartAttrs map[string]string
	Status     string
	FinalAttrs map[string]string
	Finished   bool
}

// TracingCollectorSpy implements lending.TracingCollector, capturing every
// span for test assertions. Safe for concurrent use.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpanRecord
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

// StartSpan records a new span and returns its SpanContext.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, lending.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &SpanRecord{Name: name, StartAttrs: attrs}
	s.spans = append(s.spans, record)

	return ctx, &spanContextSpy{record: record, collector: s}
}

// FinishSpan marks the span as finished with the given status and attributes.
func (s *TracingCollectorSpy) FinishSpan(spanCtx lending.SpanContext, status string, attrs map[string]string) {
	spy, ok := spanCtx.(*spanContextSpy)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	spy.record.Status = status
	spy.record.FinalAttrs = attrs
	spy.record.Finished = true
}

// Spans returns a snapshot of all recorded spans.
func (s *TracingCollectorSpy) Spans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	spans := make([]SpanRecord, len(s.spans))
	for i, record := range s.spans {
		spans[i] = *record
	}

	return spans
}

// HasFinishedSpan reports whether a span with the given name finished with the given status.
func (s *TracingCollectorSpy) HasFinishedSpan(name, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.spans {
		if record.Name == name && record.Finished && record.Status == status {
			return true
		}
	}

	return false
}

// Reset clears all recorded spans.
func (s *TracingCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spans = s.spans[:0]
}

type spanContextSpy struct {
	record    *SpanRecord
	collector *TracingCollectorSpy
}

func (s *spanContextSpy) SetStatus(status string) {
	s.collector.mu.Lock()
	defer s.collector.mu.Unlock()
	s.record.Status = status
}

func (s *spanContextSpy) AddAttribute(key, value string) {
	s.collector.mu.Lock()
	defer s.collector.mu.Unlock()
	if s.record.FinalAttrs == nil {
		s.record.FinalAttrs = make(map[string]string)
	}
	s.record.FinalAttrs[key] = value
}

// Ensure the spy implements the tracing interfaces.
var (
	_ lending.TracingCollector = (*TracingCollectorSpy)(nil)
	_ lending.SpanContext      = (*spanContextSpy)(nil)
)
