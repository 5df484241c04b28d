// Package config loads the command line's run configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
)

// Config is the full run configuration. Command line flags override file values.
type Config struct {
	Input   string   `yaml:"input" json:"input"`
	Output  string   `yaml:"output" json:"output"`
	Format  string   `yaml:"format" json:"format"`
	GroupBy []string `yaml:"group_by" json:"group_by"`
	Op      string   `yaml:"op" json:"op"`
	Columns []string `yaml:"columns" json:"columns"`
	Factor  float64  `yaml:"factor" json:"factor"`
	Sort    bool     `yaml:"sort" json:"sort"`

	Apply   ApplyConfig   `yaml:"apply" json:"apply"`
	Log     LogConfig     `yaml:"log" json:"log"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ApplyConfig configures the worker pool.
type ApplyConfig struct {
	Workers           int     `yaml:"workers" json:"workers"`
	ChunkSize         int     `yaml:"chunk_size" json:"chunk_size"`
	MaxTasksPerWorker int     `yaml:"max_tasks_per_worker" json:"max_tasks_per_worker"`
	RateLimit         float64 `yaml:"rate_limit" json:"rate_limit"`
	RateBurst         int     `yaml:"rate_burst" json:"rate_burst"`
	CPUAffinity       bool    `yaml:"cpu_affinity" json:"cpu_affinity"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// MetricsConfig configures the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the configuration used when neither a file nor a flag sets a value.
func Default() Config {
	return Config{
		Format: FormatTable,
		Factor: 1,
		Apply: ApplyConfig{
			Workers:   -1,
			ChunkSize: 1,
			RateBurst: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) file on top of Default.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config file")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(err, "failed to parse YAML")
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(err, "failed to parse JSON")
		}
	default:
		return cfg, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}

	return cfg, nil
}

// Validate checks the configuration for values no run could use.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	if len(c.GroupBy) == 0 {
		return errors.New("group_by needs at least one column")
	}
	if c.Op == "" {
		return errors.New("op is required")
	}
	if !slices.Contains([]string{FormatTable, FormatCSV}, c.Format) {
		return errors.Newf("format must be %q or %q, got %q", FormatTable, FormatCSV, c.Format)
	}

	a := c.Apply
	if a.Workers == 0 || a.Workers < -1 {
		return errors.Newf("apply.workers must be positive or -1, got %d", a.Workers)
	}
	if a.ChunkSize < 1 {
		return errors.Newf("apply.chunk_size must be at least 1, got %d", a.ChunkSize)
	}
	if a.MaxTasksPerWorker < 0 {
		return errors.New("apply.max_tasks_per_worker must be non-negative")
	}
	if a.RateLimit < 0 {
		return errors.New("apply.rate_limit must be non-negative")
	}
	if a.RateLimit > 0 && a.RateBurst < 1 {
		return errors.New("apply.rate_burst must be at least 1 when rate_limit is set")
	}

	return nil
}
