package zerologadapter_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/lending/zerologadapter"
)

func Test_NewConsoleLogger_Construction(t *testing.T) {
	logger := zerologadapter.NewConsoleLogger()
	assert.NotNil(t, logger, "NewConsoleLogger should return non-nil logger")
}

func Test_Logger_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()

	assert.Contains(t, output, `"level":"debug"`, "Debug level should be present")
	assert.Contains(t, output, "debug message", "Debug message should be logged")
	assert.Contains(t, output, `"level":"info"`, "Info level should be present")
	assert.Contains(t, output, "info message", "Info message should be logged")
	assert.Contains(t, output, `"level":"warn"`, "Warn level should be present")
	assert.Contains(t, output, "warn message", "Warn message should be logged")
	assert.Contains(t, output, `"level":"error"`, "Error level should be present")
	assert.Contains(t, output, "error message", "Error message should be logged")
}

func Test_Logger_KeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	logger.Info("loan opened",
		"operation", "open_loan",
		"open_loans", 2,
		"retried", true,
	)

	output := buf.String()

	assert.Contains(t, output, `"operation":"open_loan"`, "String attribute should be present")
	assert.Contains(t, output, `"open_loans":2`, "Int attribute should be present")
	assert.Contains(t, output, `"retried":true`, "Bool attribute should be present")
}

func Test_Logger_TrailingKeyWithoutValue(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	logger.Info("loan opened", "operation", "open_loan", "dangling")

	output := buf.String()

	assert.Contains(t, output, `"operation":"open_loan"`, "Complete pair should be present")
	assert.Contains(t, output, `"!BADKEY":"dangling"`, "Trailing key should be logged under !BADKEY")
}

func Test_Logger_NonStringKey(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologadapter.NewLogger(zerolog.New(&buf))

	logger.Info("loan opened", 42, "answer")

	assert.Contains(t, buf.String(), `"42":"answer"`, "Non-string key should be stringified")
}
