package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profkuhl/federated-learning/internal/shard"
	"github.com/profkuhl/federated-learning/internal/split"
)

// planCmd is the dry-run counterpart of distribute: inventory query only,
// no local writes, no remote mutation.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the per-client share plan without distributing anything",
	RunE:  runPlan,
}

func init() {
	addFleetFlags(planCmd)
	addSplitFlags(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	method, err := split.ParseMethod(cfg.Split.Method)
	if err != nil {
		return err
	}

	nodes, err := resolveNodes(cmd, cfg)
	if err != nil {
		return err
	}

	shares, err := split.Allocate(cfg.Dataset.SizeTotal, len(nodes), method)
	if err != nil {
		return err
	}

	fmt.Printf("Plan: %d training samples over %d clients (%s split)\n",
		cfg.Dataset.SizeTotal, len(nodes), method)
	for i, node := range nodes {
		fmt.Printf("  %-12s %10d samples  (%s%s)\n", node.Name, shares[i], node.Name, shard.TrainSuffix)
	}
	fmt.Printf("  %-12s %10d samples  (%s, all clients)\n", "shared eval", cfg.Dataset.SizeValid, shard.EvalFileName)
	return nil
}
