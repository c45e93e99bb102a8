package main

import (
	"github.com/spf13/cobra"

	"github.com/profkuhl/federated-learning/internal/config"
	"github.com/profkuhl/federated-learning/internal/fabric"
	"github.com/profkuhl/federated-learning/internal/inventory"
)

var (
	dataPath    string
	labelColumn int
	splitMethod string
	invPath     string
	invGroup    string
	remoteDest  string
	sizeTotal   int
	sizeValid   int
	workers     int
	assumeYes   bool
)

// addFleetFlags registers the flags shared by every command that talks to
// the inventory.
func addFleetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&invPath, "inventory", "i", "", "Path to the Ansible inventory file")
	cmd.Flags().StringVar(&invGroup, "group", "", "Inventory group holding the participant clients")
}

// addSplitFlags registers the flags controlling the partitioning policy.
func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&splitMethod, "split-method", "", "Split method: uniform, linear, square, exponential")
	cmd.Flags().IntVar(&sizeTotal, "size-total", 0, "Number of training samples to split across sites")
	cmd.Flags().IntVar(&sizeValid, "size-valid", 0, "Number of samples in the shared evaluation shard")
}

// loadConfig builds the effective config: defaults, then file, then
// environment, then any flag the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-path") {
		cfg.Dataset.Path = dataPath
	}
	if flags.Changed("label-col") {
		cfg.Dataset.LabelColumn = labelColumn
	}
	if flags.Changed("split-method") {
		cfg.Split.Method = splitMethod
	}
	if flags.Changed("inventory") {
		cfg.Inventory.Path = invPath
	}
	if flags.Changed("group") {
		cfg.Inventory.Group = invGroup
	}
	if flags.Changed("remote-dest") {
		cfg.Remote.Dest = remoteDest
	}
	if flags.Changed("size-total") {
		cfg.Dataset.SizeTotal = sizeTotal
	}
	if flags.Changed("size-valid") {
		cfg.Dataset.SizeValid = sizeValid
	}
	if flags.Changed("workers") {
		cfg.Execution.Workers = workers
	}
	if flags.Changed("yes") {
		cfg.Execution.AssumeYes = assumeYes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newFabric wires the exec runner and Ansible client from config.
func newFabric(cfg *config.Config) (*fabric.Client, error) {
	invTimeout, opTimeout, err := cfg.Execution.Timeouts()
	if err != nil {
		return nil, err
	}
	client := fabric.NewClient(cfg.Inventory.Path, fabric.NewExecRunner(opTimeout, logger))
	client.InventoryTimeout = invTimeout
	client.OperationTimeout = opTimeout
	return client, nil
}

// resolveNodes queries the inventory group through the fabric.
func resolveNodes(cmd *cobra.Command, cfg *config.Config) ([]inventory.Node, error) {
	client, err := newFabric(cfg)
	if err != nil {
		return nil, err
	}
	dir := inventory.NewDirectory(client, logger)

	ctx := cmd.Context()
	return dir.Resolve(ctx, cfg.Inventory.Group)
}
