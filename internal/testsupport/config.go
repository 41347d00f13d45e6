package testsupport

import (
	"path/filepath"
	"testing"

	"tdpool/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithThresholds overrides the matcher thresholds on the test config.
func WithThresholds(exact, high, medium, autoAccept float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matcher.ExactThreshold = exact
		cfg.Matcher.HighThreshold = high
		cfg.Matcher.MediumThreshold = medium
		cfg.Matcher.AutoAcceptThreshold = autoAccept
	}
}

// WithSeason sets the default grading season on the test config.
func WithSeason(season int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Grading.Season = season
	}
}
