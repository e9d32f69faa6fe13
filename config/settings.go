package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pevans/catalogsnap"
)

// DefaultSnapshotDSN is the SQLite file used for the snapshot archive when
// nothing else is configured.
const DefaultSnapshotDSN = "snapshots.db"

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL     = "CATALOGSNAP_BASE_URL"
	EnvPages       = "CATALOGSNAP_PAGES"
	EnvOutput      = "CATALOGSNAP_OUTPUT"
	EnvSource      = "CATALOGSNAP_SOURCE"
	EnvNoOpen      = "CATALOGSNAP_NO_OPEN"
	EnvSnapshotDSN = "CATALOGSNAP_SNAPSHOT_DSN"
)

// Settings is the resolved configuration of one invocation.
type Settings struct {
	Pipeline    catalogsnap.PipelineConfig
	SnapshotDSN string
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Pipeline:    *catalogsnap.DefaultPipelineConfig(),
		SnapshotDSN: DefaultSnapshotDSN,
	}
}

// ApplyFile overlays the values set in the config file. A nil file changes
// nothing.
func (s *Settings) ApplyFile(cfg *FileConfig) {
	if cfg == nil {
		return
	}

	p := &s.Pipeline
	if cfg.Catalog.BaseURL != "" {
		p.BaseURL = cfg.Catalog.BaseURL
	}
	if cfg.Catalog.Pages > 0 {
		p.NumPages = cfg.Catalog.Pages
	}
	if cfg.Catalog.Source != "" {
		p.Source = cfg.Catalog.Source
	}
	if cfg.Fetch.Retries > 0 {
		p.Retries = cfg.Fetch.Retries
	}
	if cfg.Fetch.RetryDelay > 0 {
		p.RetryDelay = cfg.Fetch.RetryDelay
	}
	if cfg.Fetch.PageDelay > 0 {
		p.PageDelay = cfg.Fetch.PageDelay
	}
	if cfg.Fetch.Timeout > 0 {
		p.FetchTimeout = cfg.Fetch.Timeout
	}
	if cfg.Fetch.UserAgent != "" {
		p.UserAgent = cfg.Fetch.UserAgent
	}
	if cfg.Output.Path != "" {
		p.OutputPath = cfg.Output.Path
	}
	if cfg.Output.Open != nil {
		p.OpenOutput = *cfg.Output.Open
	}
	if cfg.Snapshots.DSN != "" {
		s.SnapshotDSN = cfg.Snapshots.DSN
	}
}

// ApplyEnv overlays environment variables. A value that cannot be parsed
// leaves its setting unchanged; every other variable is still applied and the
// parse errors are returned joined.
func (s *Settings) ApplyEnv() error {
	return s.applyVars(os.Getenv)
}

// ApplyDotEnv overlays the variables defined in a .env file at path, with
// the same per-variable error handling as ApplyEnv. A missing file changes
// nothing.
func (s *Settings) ApplyDotEnv(path string) error {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s.applyVars(func(key string) string { return vars[key] })
}

func (s *Settings) applyVars(getenv func(string) string) error {
	var errs []error

	p := &s.Pipeline
	if val := getenv(EnvBaseURL); val != "" {
		p.BaseURL = val
	}
	if val := getenv(EnvPages); val != "" {
		if n, err := strconv.Atoi(val); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %q is not a number", EnvPages, val))
		} else {
			p.NumPages = n
		}
	}
	if val := getenv(EnvOutput); val != "" {
		p.OutputPath = val
	}
	if val := getenv(EnvSource); val != "" {
		p.Source = strings.ToLower(val)
	}
	if val := getenv(EnvNoOpen); val != "" {
		if noOpen, err := strconv.ParseBool(val); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %q is not a boolean", EnvNoOpen, val))
		} else {
			p.OpenOutput = !noOpen
		}
	}
	if val := getenv(EnvSnapshotDSN); val != "" {
		s.SnapshotDSN = val
	}

	return errors.Join(errs...)
}

// DotEnvFile is read from the working directory by LoadSettings.
const DotEnvFile = ".env"

// LoadSettings resolves settings with precedence:
// 1. Environment variables (highest priority)
// 2. .env file in the working directory
// 3. Configuration file (~/.catalogsnap/config.yaml)
// 4. Default values (lowest priority)
//
// Every layer is applied even when an earlier one fails. The returned error
// joins the problems of all layers; the settings are always usable, with each
// bad value replaced by the one from the layer below.
func LoadSettings() (*Settings, error) {
	settings := DefaultSettings()

	cfg, fileErr := LoadConfigFile()
	settings.ApplyFile(cfg)

	dotEnvErr := settings.ApplyDotEnv(DotEnvFile)
	envErr := settings.ApplyEnv()

	return settings, errors.Join(fileErr, dotEnvErr, envErr)
}

const defaultConfigFile = `# catalogsnap configuration
catalog:
  base_url: https://rutube.ru/feeds/top/
  pages: 3
  source: html
fetch:
  retries: 3
  retry_delay: 1s
  page_delay: 1s
  timeout: 10s
output:
  path: films_data.xlsx
  open: true
snapshots:
  dsn: snapshots.db
`

// WriteDefaultConfigFile writes the default config to configPath. It returns
// false without touching the file when one already exists, unless force is
// set.
func WriteDefaultConfigFile(configPath string, force bool) (bool, error) {
	if _, err := os.Stat(configPath); err == nil && !force {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigFile), 0o600); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
