package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// nodesCmd lists the group's clients in the order the fabric reports
// them. That order is the one shards are assigned in.
var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the clients of the inventory group",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		nodes, err := resolveNodes(cmd, cfg)
		if err != nil {
			return err
		}
		for i, node := range nodes {
			fmt.Printf("%3d  %s\n", i+1, node.Name)
		}
		return nil
	},
}

func init() {
	addFleetFlags(nodesCmd)
}
