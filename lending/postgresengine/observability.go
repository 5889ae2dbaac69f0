package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

const (
	metricOperationDuration  = "lending_operation_duration"
	metricTransientConflicts = "lending_transient_conflicts"

	spanAttrOperation = "operation"
	statusOK          = "ok"
	statusError       = "error"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (ls LendingStore) logQueryWithDuration(sqlQuery string, duration time.Duration) {
	if ls.logger != nil {
		ls.logger.Debug(logMsgSQLExecuted+"lending", logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (ls LendingStore) logOperation(action string, args ...any) {
	if ls.logger != nil {
		ls.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (ls LendingStore) logWarn(message string, args ...any) {
	if ls.logger != nil {
		ls.logger.Warn(message, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (ls LendingStore) logError(message string, err error, args ...any) {
	if ls.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		ls.logger.Error(message, allArgs...)
	}
}

// logOperationContext logs through the contextual logger when one is
// configured, keeping trace correlation intact.
func (ls LendingStore) logOperationContext(ctx context.Context, action string, args ...any) {
	if ls.contextualLogger != nil {
		ls.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	ls.logOperation(action, args...)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordOperationMetrics records the duration of one engine operation if a collector is configured.
func (ls LendingStore) recordOperationMetrics(ctx context.Context, operation string, duration time.Duration, status string) {
	if ls.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	// Use the context-aware method when the collector supports it
	if contextualCollector, ok := ls.metricsCollector.(lending.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
	} else {
		ls.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
	}
}

// recordConflictMetrics counts transient conflicts if a collector is configured.
func (ls LendingStore) recordConflictMetrics() {
	if ls.metricsCollector != nil {
		ls.metricsCollector.IncrementCounter(metricTransientConflicts, map[string]string{
			"conflict_type": "row_lock",
		})
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (ls LendingStore) startTraceSpan(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, lending.SpanContext) {
	if ls.tracingCollector != nil {
		return ls.tracingCollector.StartSpan(ctx, operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (ls LendingStore) finishTraceSpan(spanCtx lending.SpanContext, status string, attrs map[string]string) {
	if ls.tracingCollector != nil && spanCtx != nil {
		ls.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// finishQueryWithError finishes span and duration metric for a failed query
// operation, so error durations land on the same dashboards as successes.
func (ls LendingStore) finishQueryWithError(
	ctx context.Context,
	spanCtx lending.SpanContext,
	operation string,
	start time.Time,
) {
	ls.finishTraceSpan(spanCtx, statusError, nil)
	ls.recordOperationMetrics(ctx, operation, time.Since(start), statusError)
}
