// Package logging constructs the slog loggers used across tdpool.
//
// Two output formats are supported: a console handler that renders
// "TIMESTAMP LEVEL component: message key=value" lines, and a JSON handler
// for machine consumption. Components obtain child loggers through
// NewComponentLogger so every line carries its origin.
package logging
