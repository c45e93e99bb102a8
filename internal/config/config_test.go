package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 11_000_000, cfg.Dataset.SizeTotal)
	assert.Equal(t, 1_000_000, cfg.Dataset.SizeValid)
	assert.Equal(t, "uniform", cfg.Split.Method)
	assert.Equal(t, "nvflare_clients", cfg.Inventory.Group)
	assert.Equal(t, 1, cfg.Execution.Workers)
	inv, op, err := cfg.Execution.Timeouts()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, inv)
	assert.Equal(t, 60*time.Second, op)
	assert.False(t, cfg.Execution.AssumeYes)
}

func TestLoad(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fedsplit.yaml")
		content := `
dataset:
  size_total: 5000
  size_valid: 500
split:
  method: exponential
inventory:
  path: /etc/fleet/hosts.ini
  group: trainers
remote:
  dest: /opt/fl/data
execution:
  workers: 4
  operation_timeout: 90s
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Dataset.SizeTotal)
		assert.Equal(t, "exponential", cfg.Split.Method)
		assert.Equal(t, "trainers", cfg.Inventory.Group)
		assert.Equal(t, "/opt/fl/data", cfg.Remote.Dest)
		assert.Equal(t, 4, cfg.Execution.Workers)
		_, op, err := cfg.Execution.Timeouts()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, op)
		// Untouched sections keep their defaults.
		assert.Equal(t, "10s", cfg.Execution.InventoryTimeout)
	})

	t.Run("empty path loads defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default().Dataset, cfg.Dataset)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dataset: ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env layers over file", func(t *testing.T) {
		t.Setenv("FEDSPLIT_SPLIT_METHOD", "linear")
		t.Setenv("FEDSPLIT_GROUP", "edge_sites")
		t.Setenv("FEDSPLIT_WORKERS", "8")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "linear", cfg.Split.Method)
		assert.Equal(t, "edge_sites", cfg.Inventory.Group)
		assert.Equal(t, 8, cfg.Execution.Workers)
	})

	t.Run("invalid workers value ignored", func(t *testing.T) {
		t.Setenv("FEDSPLIT_WORKERS", "zero")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Execution.Workers)
	})

	t.Run("empty env does not clobber", func(t *testing.T) {
		t.Setenv("FEDSPLIT_INVENTORY", "")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "inventory.ini", cfg.Inventory.Path)
	})
}

func TestValidate(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("rejects bad fields", func(t *testing.T) {
		cases := []func(*Config){
			func(c *Config) { c.Inventory.Path = "" },
			func(c *Config) { c.Inventory.Group = "" },
			func(c *Config) { c.Dataset.SizeTotal = 0 },
			func(c *Config) { c.Dataset.SizeValid = -1 },
			func(c *Config) { c.Execution.Workers = 0 },
			func(c *Config) { c.Execution.OperationTimeout = "soon" },
		}
		for i, mutate := range cases {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate(), "case %d", i)
		}
	})
}
