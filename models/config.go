// Package models defines the data structures shared across the pipeline.
package models

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultECFRDate is the eCFR snapshot date every markup and structure
	// request pins to.
	DefaultECFRDate = "2024-12-30"

	// DefaultMinPublicationDate bounds rule searches; FederalRegister.gov
	// has full-text rule documents back to 1994.
	DefaultMinPublicationDate = "1994-01-01"

	DefaultDataDir         = "cfrlink-data"
	DefaultFetchIntervalMS = 1
)

// Config holds runtime settings. Values come from an optional YAML file,
// then CFRLINK_* environment variables, then CLI flags, each layer
// overriding the previous one.
type Config struct {
	DataDir            string `yaml:"data_dir"`
	ECFRDate           string `yaml:"ecfr_date"`
	MinPublicationDate string `yaml:"min_publication_date"`
	FetchIntervalMS    int    `yaml:"fetch_interval_ms"`
}

// LoadConfig builds a Config from defaults, the YAML file at path (when
// path is non-empty), and the environment. A .env file in the working
// directory is honored.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:            DefaultDataDir,
		ECFRDate:           DefaultECFRDate,
		MinPublicationDate: DefaultMinPublicationDate,
		FetchIntervalMS:    DefaultFetchIntervalMS,
	}

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("CFRLINK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CFRLINK_ECFR_DATE"); v != "" {
		cfg.ECFRDate = v
	}
	if v := os.Getenv("CFRLINK_MIN_PUBLICATION_DATE"); v != "" {
		cfg.MinPublicationDate = v
	}
	if v := os.Getenv("CFRLINK_FETCH_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CFRLINK_FETCH_INTERVAL_MS: %w", err)
		}
		cfg.FetchIntervalMS = ms
	}

	return cfg, nil
}
