package zerologadapter

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/AntonStoeckl/library-lending-go/lending"
)

// Logger implements lending.Logger on top of a zerolog.Logger.
// Args are interpreted as key-value pairs like in log/slog; a trailing
// key without a value is logged under the "!BADKEY" key.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger wraps an existing zerolog.Logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

// NewConsoleLogger creates a logger writing human-readable output to stderr,
// intended for local development and the demo binaries.
func NewConsoleLogger() *Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}

	return &Logger{logger: zerolog.New(writer).With().Timestamp().Logger()}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(l.logger.Debug(), msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(l.logger.Info(), msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(l.logger.Warn(), msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(l.logger.Error(), msg, args...)
}

func (l *Logger) log(event *zerolog.Event, msg string, args ...any) {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			event = event.Interface("!BADKEY", args[i])

			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		event = event.Interface(key, args[i+1])
	}

	event.Msg(msg)
}

// Ensure Logger implements lending.Logger.
var _ lending.Logger = (*Logger)(nil)
