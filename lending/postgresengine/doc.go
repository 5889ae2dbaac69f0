// Package postgresengine implements the lending consistency engine on PostgreSQL.
//
// The engine exposes exactly four operations: OpenLoan and CloseLoan (the loan
// lifecycle, state-mutating) plus MostBorrowed and PendingOverdue (read-only
// aggregates). Both mutating operations run inside one database transaction
// with the affected rows locked FOR UPDATE, which closes the check-then-act
// races between the availability check, the per-borrower loan count, and the
// loan insert. Lock contention, deadlocks, and serialization failures surface
// as lending.ErrTransientConflict, telling callers to retry the whole
// operation.
//
// The engine can be constructed from a pgxpool.Pool, a sql.DB (lib/pq), or a
// sqlx.DB through internal driver adapters, and is configured via functional
// options (table names, loan limit and period, clock, logging, metrics,
// tracing).
//
// Expected schema (types abbreviated):
//
//	items     (id uuid pk, title text, creator text, category text,
//	           publication_year int, cover_reference text, available bool,
//	           created_at timestamptz, updated_at timestamptz)
//	borrowers (id uuid pk, address text, phone text,
//	           created_at timestamptz, updated_at timestamptz)
//	loans     (id uuid pk, item_id uuid references items, borrower_id uuid
//	           references borrowers, opened_at timestamptz, due_at timestamptz,
//	           closed bool, closed_at timestamptz null)
package postgresengine
