package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadDotEnvOnce sync.Once

// loadDotEnv seeds the process environment from a .env file if one exists.
// Variables already set in the environment win over the file.
func loadDotEnv() {
	loadDotEnvOnce.Do(func() {
		_ = godotenv.Load() // a missing .env file is fine
	})
}

func env(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

// PostgresSingleDSN returns the DSN for the single lending database.
func PostgresSingleDSN() string {
	loadDotEnv()

	return buildDSN(
		env("LENDING_DB_HOST", "localhost"),
		env("LENDING_DB_PORT", "5432"),
		env("LENDING_DB_USER", "lending"),
		env("LENDING_DB_PASSWORD", "lending"),
		env("LENDING_DB_NAME", "lending"),
	)
}

// PostgresTestDSN returns the DSN for the test database.
func PostgresTestDSN() string {
	loadDotEnv()

	return buildDSN(
		env("LENDING_TEST_DB_HOST", "localhost"),
		env("LENDING_TEST_DB_PORT", "5432"),
		env("LENDING_TEST_DB_USER", "lending"),
		env("LENDING_TEST_DB_PASSWORD", "lending"),
		env("LENDING_TEST_DB_NAME", "lending_test"),
	)
}

func buildDSN(host, port, user, password, name string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
}
