// Package postgreswrapper provides test utilities for running the lending
// engine test suite against different PostgreSQL database adapters.
//
// The adapter is selected with the LENDING_ADAPTER_TYPE environment variable
// (pgx.pool, sql.db or sqlx.db; pgx.pool is the default), so the same tests
// run against every supported driver in CI.
//
// Usage:
//
//	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
//	defer wrapper.Close()
//
//	postgreswrapper.CleanUp(t, wrapper)
//	store := wrapper.GetLendingStore()
package postgreswrapper
