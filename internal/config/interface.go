package config

import "codeberg.org/mutker/thrustctl/internal/thrust"

// Provider defines the interface for accessing configuration values.
// All configuration values are immutable after initial loading.
type Provider interface {
	// GetLogLevel returns the configured logging level
	GetLogLevel() LogLevel

	// GetUnit returns the unit thrust values are displayed in
	GetUnit() thrust.Unit

	// IsHistoryEnabled returns whether analysed runs are recorded
	IsHistoryEnabled() bool

	// GetHistoryDBPath returns the path to the run history database
	GetHistoryDBPath() string

	// GetPlot returns the default plot size and output path
	GetPlot() PlotConfig
}

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "THRUSTCTL"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
