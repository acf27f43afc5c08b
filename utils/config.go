package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default values used when the corresponding environment variable is unset.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultLogLevel    = "INFO"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultDataDir     = "./cache"
	DefaultExportDir   = "./exports"
)

// Config holds the application configuration. It is resolved once at startup
// and passed explicitly to every component that needs it.
type Config struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Debug       bool    `mapstructure:"debug"`
	LogLevel    string  `mapstructure:"log_level"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	DataDir     string  `mapstructure:"data_dir"`
	ExportDir   string  `mapstructure:"export_dir"`
}

// LoadConfig resolves the configuration from environment variables, falling
// back to the documented defaults for everything except the API key.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("api_key", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("export_dir", DefaultExportDir)

	bindings := map[string]string{
		"api_key":     "OPENROUTER_API_KEY",
		"base_url":    "BASE_URL",
		"debug":       "DEBUG",
		"log_level":   "LOG_LEVEL",
		"max_tokens":  "MAX_TOKENS",
		"temperature": "TEMPERATURE",
		"data_dir":    "DATA_DIR",
		"export_dir":  "EXPORT_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.DataDir = expandPath(config.DataDir)
	config.ExportDir = expandPath(config.ExportDir)

	return &config, nil
}

// DBPath returns the path of the SQLite database file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "chat_cache.db")
}

// expandPath expands ~ and relative paths
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	// Expand ~
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	// Make absolute
	absPath, err := filepath.Abs(path)
	if err == nil {
		return absPath
	}

	return path
}
