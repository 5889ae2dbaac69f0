// Package helper provides observability test doubles for the lending engine:
// spies implementing the Logger, MetricsCollector and TracingCollector
// interfaces that record every call for later assertions.
package helper
