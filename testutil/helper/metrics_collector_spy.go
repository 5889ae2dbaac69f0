package helper

import (
	"context"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// DurationRecord is one recorded duration measurement.
type DurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// CounterRecord is one recorded counter increment.
type CounterRecord struct {
	Metric string
	Labels map[string]string
}

// ValueRecord is one recorded gauge value.
type ValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// MetricsCollectorSpy implements lending.MetricsCollector and
// lending.ContextualMetricsCollector, capturing every call for test
// assertions. Safe for concurrent use.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []DurationRecord
	counters  []CounterRecord
	values    []ValueRecord
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration records a duration measurement.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = append(s.durations, DurationRecord{Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter records a counter increment.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = append(s.counters, CounterRecord{Metric: metric, Labels: labels})
}

// RecordValue records a gauge value.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, ValueRecord{Metric: metric, Value: value, Labels: labels})
}

// RecordDurationContext records a duration measurement, ignoring the context.
func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

// IncrementCounterContext records a counter increment, ignoring the context.
func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

// RecordValueContext records a gauge value, ignoring the context.
func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// Durations returns a copy of all recorded duration measurements.
func (s *MetricsCollectorSpy) Durations() []DurationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]DurationRecord, len(s.durations))
	copy(records, s.durations)

	return records
}

// CounterCount returns how often the given counter was incremented.
func (s *MetricsCollectorSpy) CounterCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counters {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// HasDurationForOperation reports whether a duration was recorded for the
// given metric with an "operation" label matching operation.
func (s *MetricsCollectorSpy) HasDurationForOperation(metric, operation string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.durations {
		if record.Metric == metric && record.Labels["operation"] == operation {
			return true
		}
	}

	return false
}

// HasDurationForOperationStatus reports whether a duration was recorded for
// the given metric with matching "operation" and "status" labels.
func (s *MetricsCollectorSpy) HasDurationForOperationStatus(metric, operation, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.durations {
		if record.Metric == metric && record.Labels["operation"] == operation && record.Labels["status"] == status {
			return true
		}
	}

	return false
}

// Reset clears all recorded calls.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = s.durations[:0]
	s.counters = s.counters[:0]
	s.values = s.values[:0]
}

// Ensure MetricsCollectorSpy implements both metrics interfaces.
var (
	_ lending.MetricsCollector           = (*MetricsCollectorSpy)(nil)
	_ lending.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
)
