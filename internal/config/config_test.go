package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "run.yaml", `
input: data.csv
group_by: [a]
op: mul
columns: [b, a]
apply:
  workers: 4
  chunk_size: 2
log:
  level: debug
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "data.csv", cfg.Input)
	assert.Equal(t, []string{"a"}, cfg.GroupBy)
	assert.Equal(t, "mul", cfg.Op)
	assert.Equal(t, []string{"b", "a"}, cfg.Columns)
	assert.Equal(t, 4, cfg.Apply.Workers)
	assert.Equal(t, 2, cfg.Apply.ChunkSize)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset values keep their defaults.
	assert.Equal(t, FormatTable, cfg.Format)
	assert.InDelta(t, 1.0, cfg.Factor, 0)
	assert.Equal(t, 0, cfg.Apply.MaxTasksPerWorker)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_JSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "run.json", `{
  "input": "data.csv",
  "group_by": ["a", "b"],
  "op": "sum",
  "format": "csv",
  "apply": {"max_tasks_per_worker": 10}
}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, cfg.GroupBy)
	assert.Equal(t, FormatCSV, cfg.Format)
	assert.Equal(t, 10, cfg.Apply.MaxTasksPerWorker)
	assert.Equal(t, -1, cfg.Apply.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadFile(writeFile(t, "run.toml", "op = 'sum'"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFile(writeFile(t, "bad.yaml", "group_by: [a"))
	require.Error(t, err)

	_, err = LoadFile(writeFile(t, "bad.json", "{"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		cfg := Default()
		cfg.Input = "data.csv"
		cfg.GroupBy = []string{"a"}
		cfg.Op = "sum"
		return cfg
	}

	base := valid()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no input", func(c *Config) { c.Input = "" }},
		{"no group by", func(c *Config) { c.GroupBy = nil }},
		{"no op", func(c *Config) { c.Op = "" }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"zero workers", func(c *Config) { c.Apply.Workers = 0 }},
		{"negative workers", func(c *Config) { c.Apply.Workers = -3 }},
		{"zero chunk size", func(c *Config) { c.Apply.ChunkSize = 0 }},
		{"negative max tasks", func(c *Config) { c.Apply.MaxTasksPerWorker = -1 }},
		{"negative rate", func(c *Config) { c.Apply.RateLimit = -1 }},
		{"rate without burst", func(c *Config) { c.Apply.RateLimit = 5; c.Apply.RateBurst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
