package postgresengine

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// TableNames holds the names of the three tables the engine works on.
type TableNames struct {
	Items     string
	Borrowers string
	Loans     string
}

// Option defines a functional option for configuring a LendingStore.
type Option func(*LendingStore) error

// WithTableNames overrides the default table names (items, borrowers, loans).
func WithTableNames(tables TableNames) Option {
	return func(ls *LendingStore) error {
		if tables.Items == "" || tables.Borrowers == "" || tables.Loans == "" {
			return lending.ErrEmptyTableName
		}

		ls.tables = tables

		return nil
	}
}

// WithLoanLimit overrides the maximum number of concurrently open loans per borrower.
func WithLoanLimit(limit int) Option {
	return func(ls *LendingStore) error {
		if limit <= 0 {
			return lending.ErrInvalidLoanLimit
		}

		ls.loanLimit = limit

		return nil
	}
}

// WithLoanPeriod overrides the fixed lending period used to derive DueAt.
func WithLoanPeriod(period time.Duration) Option {
	return func(ls *LendingStore) error {
		if period <= 0 {
			return lending.ErrInvalidLoanPeriod
		}

		ls.loanPeriod = period

		return nil
	}
}

// WithClock sets the time source for OpenedAt/DueAt/ClosedAt and the overdue
// cutoff. Intended for deterministic tests; defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(ls *LendingStore) error {
		if clock == nil {
			return lending.ErrNilClock
		}

		ls.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the LendingStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Operation outcomes, durations, conflicts (production-safe)
// Warn level: Non-critical issues like rollback/cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger lending.Logger) Option {
	return func(ls *LendingStore) error {
		ls.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the LendingStore.
// The collector will receive operation durations, open/close counts,
// transient conflicts, and database errors.
func WithMetrics(collector lending.MetricsCollector) Option {
	return func(ls *LendingStore) error {
		ls.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the LendingStore.
// The collector will receive spans for every engine operation including
// context propagation and error tracking.
func WithTracing(collector lending.TracingCollector) Option {
	return func(ls *LendingStore) error {
		ls.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the LendingStore.
// The contextual logger receives log messages with context information including
// automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger lending.ContextualLogger) Option {
	return func(ls *LendingStore) error {
		ls.contextualLogger = logger
		return nil
	}
}
