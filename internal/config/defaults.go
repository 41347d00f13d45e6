package config

const (
	defaultDataDir             = "~/.local/share/tdpool"
	defaultLogDir              = "~/.local/share/tdpool/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultExactThreshold      = 1.0
	defaultHighThreshold       = 0.85
	defaultMediumThreshold     = 0.70
	defaultAutoAcceptThreshold = 0.85
	defaultStakeUnits          = 1.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Matcher: Matcher{
			ExactThreshold:      defaultExactThreshold,
			HighThreshold:       defaultHighThreshold,
			MediumThreshold:     defaultMediumThreshold,
			AutoAcceptThreshold: defaultAutoAcceptThreshold,
		},
		Grading: Grading{
			DefaultStake: defaultStakeUnits,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
