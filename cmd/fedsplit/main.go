// fedsplit partitions a dataset across the participant nodes of an
// Ansible-managed fleet and delivers each node its private training shard
// plus a shared evaluation shard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fedsplit",
	Short: "fedsplit - federated dataset shard distributor",
	Long: `fedsplit splits a labeled dataset into per-site training shards and
delivers them to the clients of an Ansible inventory group.

The split can be uniform or skewed (linear, square, exponential) across
sites. Each client receives exactly one private training shard plus an
identical copy of the shared evaluation shard. Distribution DELETES and
recreates the remote destination directory on every client first.

Typical flow:
  fedsplit nodes --inventory hosts.ini
  fedsplit plan --inventory hosts.ini --split-method exponential
  fedsplit distribute --inventory hosts.ini --data-path HIGGS.csv \
      --remote-dest /tmp/fl_data --yes`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to fedsplit config file (YAML)")

	rootCmd.AddCommand(distributeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(allocateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
