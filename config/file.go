package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.catalogsnap/config.yaml. Zero
// values mean "not set" and leave the defaults in place.
type FileConfig struct {
	Catalog struct {
		BaseURL string `yaml:"base_url"`
		Pages   int    `yaml:"pages"`
		Source  string `yaml:"source"`
	} `yaml:"catalog"`
	Fetch struct {
		Retries    int           `yaml:"retries"`
		RetryDelay time.Duration `yaml:"retry_delay"`
		PageDelay  time.Duration `yaml:"page_delay"`
		Timeout    time.Duration `yaml:"timeout"`
		UserAgent  string        `yaml:"user_agent"`
	} `yaml:"fetch"`
	Output struct {
		Path string `yaml:"path"`
		Open *bool  `yaml:"open"`
	} `yaml:"output"`
	Snapshots struct {
		DSN string `yaml:"dsn"`
	} `yaml:"snapshots"`
}

// ConfigFilePath returns the path of the config file in the user's home
// directory.
func ConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".catalogsnap", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.catalogsnap/config.yaml. Returns
// nil if the file doesn't exist (not an error).
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from an explicit path. Returns nil
// if the file doesn't exist and an error if it exists but cannot be parsed.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
