package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors t.Chdir (Go 1.24+), which is unavailable on this toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestInitializeConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "project_settings.json", cfg.Data.SettingsFile)
	assert.Equal(t, []string{"total"}, cfg.Mapping.SubtotalMarkers)
	assert.Equal(t, 8192, cfg.Statement.MaxFormulaLength)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROLLPL_LOG_LEVEL", "debug")
	t.Setenv("ROLLPL_DATA_SETTINGS_FILE", "custom.json")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "custom.json", cfg.Data.SettingsFile)
}

func TestInitializeConfigRejectsBadLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROLLPL_LOG_LEVEL", "loud")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestInitializeConfigRejectsBadFormat(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROLLPL_LOG_FORMAT", "xml")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestSettingsPath(t *testing.T) {
	cfg := &Config{}
	cfg.Data.Directory = "/data"
	cfg.Data.SettingsFile = "project_settings.json"
	assert.Equal(t, filepath.Join("/data", "project_settings.json"), cfg.SettingsPath())

	cfg.Data.SettingsFile = "/abs/settings.json"
	assert.Equal(t, "/abs/settings.json", cfg.SettingsPath())
}

func TestConfigureLogging(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := ConfigureLogging(cfg)
	assert.NotNil(t, logger)
}
