// Package config holds all fedsplit configuration.
//
// Precedence: command-line flags override environment variables, which
// override the config file, which overrides built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all fedsplit configuration.
type Config struct {
	// Dataset input settings
	Dataset DatasetConfig `yaml:"dataset"`

	// Split policy settings
	Split SplitConfig `yaml:"split"`

	// Inventory source settings
	Inventory InventoryConfig `yaml:"inventory"`

	// Remote destination settings
	Remote RemoteConfig `yaml:"remote"`

	// Execution settings
	Execution ExecutionConfig `yaml:"execution"`
}

// DatasetConfig configures the local dataset input.
type DatasetConfig struct {
	Path        string `yaml:"path"`
	LabelColumn int    `yaml:"label_column"`

	// SizeTotal is the number of training samples to split across sites.
	SizeTotal int `yaml:"size_total"`

	// SizeValid is the number of samples reserved for the shared
	// evaluation shard.
	SizeValid int `yaml:"size_valid"`
}

// SplitConfig configures the partitioning policy.
type SplitConfig struct {
	// Method is one of uniform, linear, square, exponential.
	Method string `yaml:"method"`
}

// InventoryConfig configures the fabric inventory query.
type InventoryConfig struct {
	Path  string `yaml:"path"`
	Group string `yaml:"group"`
}

// RemoteConfig configures the destination on participant nodes.
type RemoteConfig struct {
	// Dest is the absolute remote directory. It is deleted and recreated
	// on every node during distribution.
	Dest string `yaml:"dest"`
}

// ExecutionConfig configures how remote operations run.
type ExecutionConfig struct {
	// Workers bounds concurrent per-node transfers. 1 preserves strictly
	// sequential delivery.
	Workers int `yaml:"workers"`

	// InventoryTimeout bounds the inventory query. Duration string,
	// e.g. "10s".
	InventoryTimeout string `yaml:"inventory_timeout"`

	// OperationTimeout bounds each remote file or copy operation.
	OperationTimeout string `yaml:"operation_timeout"`

	// AssumeYes skips the destructive-reset confirmation prompt.
	AssumeYes bool `yaml:"assume_yes"`
}

// Timeouts parses the configured timeout strings.
func (e ExecutionConfig) Timeouts() (inventory, operation time.Duration, err error) {
	inventory, err = time.ParseDuration(e.InventoryTimeout)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid inventory_timeout %q: %w", e.InventoryTimeout, err)
	}
	operation, err = time.ParseDuration(e.OperationTimeout)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid operation_timeout %q: %w", e.OperationTimeout, err)
	}
	return inventory, operation, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			LabelColumn: 0,
			SizeTotal:   11_000_000,
			SizeValid:   1_000_000,
		},
		Split: SplitConfig{
			Method: "uniform",
		},
		Inventory: InventoryConfig{
			Path:  "inventory.ini",
			Group: "nvflare_clients",
		},
		Execution: ExecutionConfig{
			Workers:          1,
			InventoryTimeout: "10s",
			OperationTimeout: "60s",
		},
	}
}

// Load reads a config file over the defaults and applies environment
// overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides layers FEDSPLIT_* environment variables over the
// loaded values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FEDSPLIT_DATA_PATH"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("FEDSPLIT_INVENTORY"); v != "" {
		c.Inventory.Path = v
	}
	if v := os.Getenv("FEDSPLIT_GROUP"); v != "" {
		c.Inventory.Group = v
	}
	if v := os.Getenv("FEDSPLIT_SPLIT_METHOD"); v != "" {
		c.Split.Method = v
	}
	if v := os.Getenv("FEDSPLIT_REMOTE_DEST"); v != "" {
		c.Remote.Dest = v
	}
	if v := os.Getenv("FEDSPLIT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Execution.Workers = n
		}
	}
}

// Validate checks the fields every run needs regardless of subcommand.
func (c *Config) Validate() error {
	if c.Inventory.Path == "" {
		return fmt.Errorf("inventory path is required")
	}
	if c.Inventory.Group == "" {
		return fmt.Errorf("inventory group is required")
	}
	if c.Dataset.SizeTotal < 1 {
		return fmt.Errorf("size_total must be positive, got %d", c.Dataset.SizeTotal)
	}
	if c.Dataset.SizeValid < 0 {
		return fmt.Errorf("size_valid must be non-negative, got %d", c.Dataset.SizeValid)
	}
	if c.Execution.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Execution.Workers)
	}
	if _, _, err := c.Execution.Timeouts(); err != nil {
		return err
	}
	return nil
}
