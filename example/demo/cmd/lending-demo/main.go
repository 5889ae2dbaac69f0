// Package main runs one full lending cycle against a local Postgres:
// seed an item and a borrower, open a loan, list the most borrowed items,
// check for overdue loans, and close the loan again. Output is printed as
// the JSON documents the shell package produces.
//
// Database coordinates come from the LENDING_DB_* environment variables
// (see shell/config), so a plain `docker compose up postgres` is enough.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect for the seed statements
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-lending-go/features/command/closeloan"
	"github.com/AntonStoeckl/library-lending-go/features/command/openloan"
	"github.com/AntonStoeckl/library-lending-go/features/query/mostborrowed"
	"github.com/AntonStoeckl/library-lending-go/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending-go/lending"
	"github.com/AntonStoeckl/library-lending-go/lending/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/lending/zerologadapter"
	"github.com/AntonStoeckl/library-lending-go/shell"
	"github.com/AntonStoeckl/library-lending-go/shell/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolSingleConfig())
	if err != nil {
		return fmt.Errorf("creating connection pool: %w", err)
	}
	defer pool.Close()

	if pingErr := pool.Ping(ctx); pingErr != nil {
		return fmt.Errorf("pinging database: %w", pingErr)
	}

	store, err := postgresengine.NewLendingStoreFromPGXPool(pool,
		postgresengine.WithLogger(zerologadapter.NewConsoleLogger()),
	)
	if err != nil {
		return fmt.Errorf("creating lending store: %w", err)
	}

	itemID, borrowerID, err := seed(ctx, pool)
	if err != nil {
		return fmt.Errorf("seeding demo data: %w", err)
	}

	openHandler := openloan.NewCommandHandler(store)
	closeHandler := closeloan.NewCommandHandler(store)
	rankingHandler := mostborrowed.NewQueryHandler(store)
	overdueHandler := overdueloans.NewQueryHandler(store)

	// Open a loan for the seeded borrower on the seeded item.
	loan, result, err := openHandler.Handle(ctx, openloan.BuildCommand(borrowerID, itemID))
	if err != nil {
		return fmt.Errorf("opening loan: %w", err)
	}

	if printErr := printDocument("opened loan", shell.LoanDocumentFrom(loan)); printErr != nil {
		return printErr
	}
	fmt.Printf("  (attempts: %d, retries exhausted: %v)\n", result.RetryAttempts, result.RetriesExhausted)

	// The freshly opened loan makes the item show up in the ranking.
	ranking, err := rankingHandler.Handle(ctx, mostborrowed.BuildQuery(lending.DefaultMostBorrowedLimit))
	if err != nil {
		return fmt.Errorf("querying most borrowed items: %w", err)
	}

	if printErr := printDocument("most borrowed items", shell.RankedItemDocumentsFrom(ranking.Items)); printErr != nil {
		return printErr
	}

	// A loan opened just now cannot be overdue yet.
	overdue, err := overdueHandler.Handle(ctx, overdueloans.BuildQuery(borrowerID))
	if err != nil {
		return fmt.Errorf("querying overdue loans: %w", err)
	}

	if printErr := printDocument("pending overdue loans", shell.LoanDocumentsFrom(overdue.Loans)); printErr != nil {
		return printErr
	}

	// Return the item.
	closed, _, err := closeHandler.Handle(ctx, closeloan.BuildCommand(loan.ID, borrowerID))
	if err != nil {
		return fmt.Errorf("closing loan: %w", err)
	}

	return printDocument("closed loan", shell.LoanDocumentFrom(closed))
}

// seed inserts one available item and one borrower, since catalog and
// borrower management sit outside the lending engine.
func seed(ctx context.Context, pool *pgxpool.Pool) (uuid.UUID, uuid.UUID, error) {
	now := lending.ToTimestamp(time.Now())
	itemID := uuid.New()
	borrowerID := uuid.New()

	itemQuery, _, err := goqu.Dialect("postgres").
		Insert("items").
		Rows(goqu.Record{
			"id":               itemID.String(),
			"title":            "A Canticle for Leibowitz",
			"creator":          "Walter M. Miller Jr.",
			"category":         "fiction",
			"publication_year": 1959,
			"cover_reference":  "",
			"available":        true,
			"created_at":       now,
			"updated_at":       now,
		}).
		ToSQL()
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	borrowerQuery, _, err := goqu.Dialect("postgres").
		Insert("borrowers").
		Rows(goqu.Record{
			"id":         borrowerID.String(),
			"address":    "42 Library Lane",
			"phone":      "555-0100",
			"created_at": now,
			"updated_at": now,
		}).
		ToSQL()
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	if _, execErr := pool.Exec(ctx, itemQuery); execErr != nil {
		return uuid.Nil, uuid.Nil, execErr
	}
	if _, execErr := pool.Exec(ctx, borrowerQuery); execErr != nil {
		return uuid.Nil, uuid.Nil, execErr
	}

	return itemID, borrowerID, nil
}

func printDocument(label string, document any) error {
	payload, err := shell.MarshalJSONDocument(document)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", label, err)
	}

	fmt.Fprintf(os.Stdout, "%s: %s\n", label, payload)

	return nil
}
