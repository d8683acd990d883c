package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel   = LogLevelInfo
	DefaultUnit       = "ozf"
	DefaultPlotWidth  = 1000
	DefaultPlotHeight = 600

	defaultEnvPrefix = "THRUSTCTL"
	configName       = "thrustctl"
)

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type PlotConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Output string `mapstructure:"output"`
}

type Config struct {
	LogLevel LogLevel      `mapstructure:"log_level"`
	Unit     string        `mapstructure:"unit"`
	History  HistoryConfig `mapstructure:"history"`
	Plot     PlotConfig    `mapstructure:"plot"`

	displayUnit thrust.Unit
}

func (c *Config) GetLogLevel() LogLevel    { return c.LogLevel }
func (c *Config) GetUnit() thrust.Unit     { return c.displayUnit }
func (c *Config) IsHistoryEnabled() bool   { return c.History.Enabled }
func (c *Config) GetHistoryDBPath() string { return c.History.DBPath }
func (c *Config) GetPlot() PlotConfig      { return c.Plot }

var _ Provider = (*Config)(nil)

// Load reads configuration from defaults, the config file, the
// environment and the global flags in args, in increasing precedence.
// Parsing stops at the first non-flag argument; the remaining arguments
// are returned for the command to handle.
func Load(args []string, opts ...Option) (*Config, []string, error) {
	errFactory := errors.New()

	o := options{envPrefix: defaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.SetInterspersed(false)
	configFlag := fs.String("config", "", "Path to configuration file")
	fs.String("log-level", string(DefaultLogLevel), "Log level (debug, info, warning, error)")
	fs.String("unit", DefaultUnit, "Display unit for thrust (ozf, lbf)")
	fs.Bool("history", false, "Record analysed runs in the history database")
	fs.String("history-db", "", "Path to the history database")

	if err := fs.Parse(args); err != nil {
		return nil, nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("log_level", string(DefaultLogLevel))
	v.SetDefault("unit", DefaultUnit)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.db_path", defaultHistoryPath())
	v.SetDefault("plot.width", DefaultPlotWidth)
	v.SetDefault("plot.height", DefaultPlotHeight)
	v.SetDefault("plot.output", "")

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"log_level":       "log-level",
		"unit":            "unit",
		"history.enabled": "history",
		"history.db_path": "history-db",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	path := o.configPath
	if *configFlag != "" {
		path = *configFlag
	}
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
		v.AddConfigPath(filepath.Join("/etc", configName))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}

// Validate checks every value and resolves the display unit
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !c.LogLevel.IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	u, err := thrust.ParseUnit(c.Unit)
	if err != nil {
		return err
	}
	c.displayUnit = u

	if c.History.Enabled && c.History.DBPath == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "history.db_path must be set when history is enabled")
	}

	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Width  int
			Height int
		}{c.Plot.Width, c.Plot.Height})
	}

	return nil
}

func defaultHistoryPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, configName, "history.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", configName, "history.db")
	}
	return filepath.Join(os.TempDir(), configName, "history.db")
}
