// Package config provides Viper-based hierarchical configuration
// management for the rolling-pl application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/rolling-pl/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		SettingsFile string `mapstructure:"settings_file" yaml:"settings_file"`
	} `mapstructure:"data" yaml:"data"`

	Mapping struct {
		SubtotalMarkers []string `mapstructure:"subtotal_markers" yaml:"subtotal_markers"`
	} `mapstructure:"mapping" yaml:"mapping"`

	Statement struct {
		MaxFormulaLength int `mapstructure:"max_formula_length" yaml:"max_formula_length"`
	} `mapstructure:"statement" yaml:"statement"`
}

// SettingsPath returns the full path of the persisted project settings file.
func (c *Config) SettingsPath() string {
	if filepath.IsAbs(c.Data.SettingsFile) {
		return c.Data.SettingsFile
	}
	return filepath.Join(c.Data.Directory, c.Data.SettingsFile)
}

// LoadEnv loads environment variables from a .env file when one exists in
// the current directory. Missing files are not an error.
func LoadEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then environment
// variables with the ROLLPL prefix.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.rolling-pl")
	v.AddConfigPath(".rolling-pl")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ROLLPL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", ".")
	v.SetDefault("data.settings_file", "project_settings.json")

	v.SetDefault("mapping.subtotal_markers", []string{"total"})

	// 8192 is the xlsx formula length ceiling.
	v.SetDefault("statement.max_formula_length", 8192)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Data.SettingsFile == "" {
		return fmt.Errorf("data.settings_file must not be empty")
	}

	if config.Statement.MaxFormulaLength < 1 {
		return fmt.Errorf("statement.max_formula_length must be positive, got: %d",
			config.Statement.MaxFormulaLength)
	}

	return nil
}

// ConfigureLogging builds the application logger from the Config.
func ConfigureLogging(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
