// Package oteladapters provides OpenTelemetry implementations of the
// lending observability interfaces, for users who want plug-and-play
// logging, metrics and tracing without writing the adapters themselves.
package oteladapters
