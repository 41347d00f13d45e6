package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Threshold problems fail fast
// here; they are never clamped.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateGrading(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	thresholds := map[string]float64{
		"matcher.exact_threshold":       c.Matcher.ExactThreshold,
		"matcher.high_threshold":        c.Matcher.HighThreshold,
		"matcher.medium_threshold":      c.Matcher.MediumThreshold,
		"matcher.auto_accept_threshold": c.Matcher.AutoAcceptThreshold,
	}
	for name, value := range thresholds {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", name, value)
		}
	}
	if c.Matcher.MediumThreshold > c.Matcher.AutoAcceptThreshold {
		return errors.New("matcher.medium_threshold must not exceed matcher.auto_accept_threshold")
	}
	if c.Matcher.AutoAcceptThreshold > c.Matcher.ExactThreshold {
		return errors.New("matcher.auto_accept_threshold must not exceed matcher.exact_threshold")
	}
	return nil
}

func (c *Config) validateGrading() error {
	if c.Grading.Season < 0 {
		return errors.New("grading.season must not be negative")
	}
	if c.Grading.DefaultStake <= 0 {
		return errors.New("grading.default_stake must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
