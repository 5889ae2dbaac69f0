// Package adapters provides database adapter implementations for the PostgreSQL lending engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the lending engine to work seamlessly with any
// supported database connection type.
//
// In addition to plain query execution the adapters expose transactions (DBTx),
// because every state-mutating lending operation runs as one atomic unit of work
// with row-level locks held for its duration.
package adapters
