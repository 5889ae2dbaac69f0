// Package config provides database configuration helpers for PostgreSQL
// connections to the lending database.
//
// This package contains factory functions for creating database connections
// using different PostgreSQL drivers (pgx.Pool, sql.DB, sqlx.DB) with
// DSNs resolved from the environment (optionally seeded from a .env file).
package config
