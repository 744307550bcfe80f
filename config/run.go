package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envAsOf       = "MANDATE_AS_OF"
	envEconomyDir = "MANDATE_ECONOMY_DIR"
	envLogLevel   = "LOG_LEVEL"
)

// RunConfig describes a single valuation run: where the tabular inputs live,
// the valuation date and any overrides of the valuation conventions.
type RunConfig struct {
	AsOf         string        `yaml:"as_of"`
	EconomyDir   string        `yaml:"economy_dir"`
	PortfolioDir string        `yaml:"portfolio_dir"`
	MandateDir   string        `yaml:"mandate_dir"`
	Valuation    Config        `yaml:"valuation"`
	Logging      LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json or text
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultRunConfig returns a run configuration reading ./io/input/* as of today.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		EconomyDir:   "io/input/economy",
		PortfolioDir: "io/input/portfolio",
		MandateDir:   "io/input/mandate",
		Valuation:    DefaultConfig,
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads a YAML run configuration. The file is decoded over the defaults,
// so absent keys keep them and explicit zeros are honoured. Environment
// variables override both. An empty path yields the defaults with
// environment overrides applied.
func Load(path string) (*RunConfig, error) {
	rc := DefaultRunConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &rc); err != nil {
			return nil, fmt.Errorf("cannot parse YAML: %w", err)
		}
	}
	rc.applyEnv()
	if _, err := rc.Date(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// LoadEnv loads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// Date parses AsOf. An empty value means today (UTC midnight).
func (rc RunConfig) Date() (time.Time, error) {
	if strings.TrimSpace(rc.AsOf) == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(rc.AsOf))
	if err != nil {
		return time.Time{}, fmt.Errorf("as_of %q: %w", rc.AsOf, err)
	}
	return t, nil
}

func (rc *RunConfig) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(envAsOf)); v != "" {
		rc.AsOf = v
	}
	if v := strings.TrimSpace(os.Getenv(envEconomyDir)); v != "" {
		rc.EconomyDir = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		rc.Logging.Level = v
	}
}
