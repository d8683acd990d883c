package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/thrustctl/internal/config"
	"codeberg.org/mutker/thrustctl/internal/errors"
	"codeberg.org/mutker/thrustctl/internal/thrust"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("THRUSTCTL_CONFIG", "")
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thrustctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, `
log_level = "debug"
unit = "lbf"

[history]
enabled = true
db_path = "/path/to/history.db"

[plot]
width = 800
height = 400
output = "out.png"
`)

	cfg, rest, err := config.Load([]string{"summary", "run.csv"}, config.WithConfigFile(configPath))
	require.NoError(t, err)

	assert.Equal(t, config.LogLevelDebug, cfg.GetLogLevel(), "Expected LogLevel debug")
	assert.Equal(t, thrust.LBF, cfg.GetUnit(), "Expected unit lbf")
	assert.True(t, cfg.IsHistoryEnabled(), "Expected history enabled")
	assert.Equal(t, "/path/to/history.db", cfg.GetHistoryDBPath())
	assert.Equal(t, 800, cfg.Plot.Width)
	assert.Equal(t, 400, cfg.Plot.Height)
	assert.Equal(t, "out.png", cfg.Plot.Output)
	assert.Equal(t, []string{"summary", "run.csv"}, rest)
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, rest, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.GetLogLevel(), "Expected default LogLevel info")
	assert.Equal(t, thrust.OZF, cfg.GetUnit(), "Expected default unit ozf")
	assert.False(t, cfg.IsHistoryEnabled(), "Expected history disabled by default")
	assert.Equal(t, filepath.Join(home, ".local", "share", "thrustctl", "history.db"), cfg.GetHistoryDBPath())
	assert.Equal(t, config.DefaultPlotWidth, cfg.Plot.Width)
	assert.Equal(t, config.DefaultPlotHeight, cfg.Plot.Height)
	assert.Empty(t, rest)
}

func TestFlagsOverrideFile(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, `
log_level = "error"
unit = "lbf"
`)

	args := []string{"--config", configPath, "--log-level", "debug", "--unit", "ozf", "--history", "plot", "--width", "5"}
	cfg, rest, err := config.Load(args)
	require.NoError(t, err)

	assert.Equal(t, config.LogLevelDebug, cfg.GetLogLevel(), "Expected LogLevel to be set by flag")
	assert.Equal(t, thrust.OZF, cfg.GetUnit())
	assert.True(t, cfg.IsHistoryEnabled())
	assert.Equal(t, []string{"plot", "--width", "5"}, rest, "command flags must be left alone")
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, `unit = "ozf"`)
	t.Setenv("THRUSTCTL_CONFIG", configPath)
	t.Setenv("THRUSTCTL_UNIT", "lbf")
	t.Setenv("THRUSTCTL_HISTORY_DB_PATH", "/tmp/env.db")

	cfg, _, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, thrust.LBF, cfg.GetUnit())
	assert.Equal(t, "/tmp/env.db", cfg.GetHistoryDBPath())
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, `
This is not a valid TOML file
`)

	_, _, err := config.Load(nil, config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, _, err := config.Load([]string{"--config", filepath.Join(t.TempDir(), "absent.toml")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, `log_level = "invalid"`)

	_, _, err := config.Load(nil, config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestInvalidUnit(t *testing.T) {
	isolate(t)

	_, _, err := config.Load([]string{"--unit", "newton"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidUnit))
}

func TestInvalidPlotSize(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, "[plot]\nwidth = 0\n")

	_, _, err := config.Load(nil, config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)

	_, _, err := config.Load([]string{"--bogus"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}

func TestWithEnvPrefix(t *testing.T) {
	isolate(t)
	t.Setenv("ROCKET_UNIT", "lbf")
	t.Setenv("THRUSTCTL_UNIT", "ozf")

	cfg, _, err := config.Load(nil, config.WithEnvPrefix("ROCKET"))
	require.NoError(t, err)
	assert.Equal(t, thrust.LBF, cfg.GetUnit())
}

func TestProviderPlot(t *testing.T) {
	isolate(t)
	configPath := writeConfig(t, `
[plot]
width = 320
height = 240
`)

	cfg, _, err := config.Load(nil, config.WithConfigFile(configPath))
	require.NoError(t, err)

	var p config.Provider = cfg
	assert.Equal(t, config.PlotConfig{Width: 320, Height: 240}, p.GetPlot())
}
