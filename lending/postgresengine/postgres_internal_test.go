package postgresengine

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

func Test_AsEngineError_PromotesTransientSQLStates(t *testing.T) {
	// setup
	ls := LendingStore{}

	cases := []struct {
		name  string
		cause error
	}{
		{"pgx serialization failure", &pgconn.PgError{Code: "40001"}},
		{"pgx deadlock detected", &pgconn.PgError{Code: "40P01"}},
		{"pgx lock not available", &pgconn.PgError{Code: "55P03"}},
		{"pq serialization failure", &pq.Error{Code: "40001"}},
		{"pq deadlock detected", &pq.Error{Code: "40P01"}},
		{"pq lock not available", &pq.Error{Code: "55P03"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			err := ls.asEngineError(lending.ErrQueryingRowsFailed, tc.cause)

			// assert
			assert.ErrorIs(t, err, lending.ErrTransientConflict)
			assert.NotErrorIs(t, err, lending.ErrQueryingRowsFailed)
		})
	}
}

func Test_AsEngineError_KeepsSentinelForNonTransientFailures(t *testing.T) {
	// setup
	ls := LendingStore{}

	// act + assert: a unique violation is not retryable
	err := ls.asEngineError(lending.ErrQueryingRowsFailed, &pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, lending.ErrQueryingRowsFailed)
	assert.NotErrorIs(t, err, lending.ErrTransientConflict)

	// act + assert: neither is a plain driver error without a SQLSTATE
	err = ls.asEngineError(lending.ErrQueryingRowsFailed, errors.New("connection reset"))
	assert.ErrorIs(t, err, lending.ErrQueryingRowsFailed)
	assert.NotErrorIs(t, err, lending.ErrTransientConflict)
}
