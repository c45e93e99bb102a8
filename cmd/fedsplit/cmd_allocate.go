package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profkuhl/federated-learning/internal/split"
)

var allocateSites int

// allocateCmd prints a share vector without needing an inventory. Handy
// for choosing a split method before a fleet exists.
var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Compute a share vector for a sample count and site count",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		method, err := split.ParseMethod(cfg.Split.Method)
		if err != nil {
			return err
		}
		shares, err := split.Allocate(cfg.Dataset.SizeTotal, allocateSites, method)
		if err != nil {
			return err
		}
		fmt.Printf("%d samples over %d sites (%s): %v\n", cfg.Dataset.SizeTotal, allocateSites, method, shares)
		return nil
	},
}

func init() {
	addSplitFlags(allocateCmd)
	allocateCmd.Flags().IntVar(&allocateSites, "sites", 4, "Number of sites to allocate across")
}
