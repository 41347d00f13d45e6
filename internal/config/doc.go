// Package config loads, normalizes, and validates tdpool configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TDPOOL_DATA_DIR. Matcher thresholds are validated at load time and never
// silently clamped, so a misordered threshold set fails before any grading
// runs against it.
package config
