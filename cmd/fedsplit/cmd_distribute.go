package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/profkuhl/federated-learning/internal/config"
	"github.com/profkuhl/federated-learning/internal/dataset"
	"github.com/profkuhl/federated-learning/internal/distribute"
	"github.com/profkuhl/federated-learning/internal/inventory"
	"github.com/profkuhl/federated-learning/internal/shard"
	"github.com/profkuhl/federated-learning/internal/split"
)

var errAborted = errors.New("distribution aborted")

// distributeCmd runs the full split-and-deliver pipeline.
var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Split the dataset and deliver shards to every client",
	Long: `Resolves the inventory group, partitions the training samples across
its clients with the configured split method, writes one shard per client
plus the shared evaluation shard to scratch storage, then DELETES and
recreates the remote destination directory on every client and copies
each client its two files.

Per-client copy failures do not abort the run; the final summary lists
which clients are missing data. The fleet-wide directory reset is
destructive and requires --yes or interactive confirmation.`,
	RunE: runDistribute,
}

func init() {
	addFleetFlags(distributeCmd)
	addSplitFlags(distributeCmd)
	distributeCmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the dataset CSV")
	distributeCmd.Flags().IntVar(&labelColumn, "label-col", 0, "Column index of the label in the CSV")
	distributeCmd.Flags().StringVar(&remoteDest, "remote-dest", "", "Absolute destination directory on the clients")
	distributeCmd.Flags().IntVar(&workers, "workers", 0, "Concurrent per-node transfers (1 = sequential)")
	distributeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the destructive-reset confirmation")
}

func runDistribute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("data path is required (--data-path)")
	}
	if cfg.Remote.Dest == "" {
		return fmt.Errorf("remote destination is required (--remote-dest)")
	}
	method, err := split.ParseMethod(cfg.Split.Method)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	// Resolve nodes before touching anything local or remote.
	nodes, err := resolveNodes(cmd, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d clients in group %q: %s\n",
		len(nodes), cfg.Inventory.Group, strings.Join(inventory.Names(nodes), ", "))

	// Load and carve the dataset: evaluation slice first, the rest is
	// the training pool.
	limit := cfg.Dataset.SizeTotal + cfg.Dataset.SizeValid
	ds, err := dataset.LoadCSV(cfg.Dataset.Path, cfg.Dataset.LabelColumn, limit)
	if err != nil {
		return err
	}
	if ds.Len() <= cfg.Dataset.SizeValid {
		return fmt.Errorf("dataset has %d samples, need more than size_valid=%d", ds.Len(), cfg.Dataset.SizeValid)
	}
	eval := ds.Head(cfg.Dataset.SizeValid)
	train := ds.Tail(cfg.Dataset.SizeValid)

	shares, err := split.Allocate(train.Len(), len(nodes), method)
	if err != nil {
		return err
	}
	groups := split.Partition(train.Len(), shares)
	fmt.Printf("Splitting %d samples into %d sites (%s): %v\n", train.Len(), len(nodes), method, shares)

	if !cfg.Execution.AssumeYes {
		if !confirmReset(cfg, len(nodes)) {
			return errAborted
		}
	}

	// Run-scoped scratch; discarded on every exit path.
	scratch, cleanup, err := shard.NewScratch()
	if err != nil {
		return err
	}
	defer cleanup()

	writer := shard.NewWriter(scratch, logger)
	handles := make([]shard.Handle, len(nodes))
	for i, node := range nodes {
		handles[i], err = writer.WriteTrain(node.Name, train.Select(groups[i]))
		if err != nil {
			return err
		}
	}
	evalHandle, err := writer.WriteEval(eval)
	if err != nil {
		return err
	}

	assignment, err := distribute.NewAssignment(handles, nodes)
	if err != nil {
		return err
	}

	client, err := newFabric(cfg)
	if err != nil {
		return err
	}
	d := distribute.New(client, cfg.Execution.Workers, logger)

	report, err := d.Run(ctx, distribute.Plan{
		Group:      cfg.Inventory.Group,
		RemoteDest: cfg.Remote.Dest,
		Nodes:      nodes,
		Assignment: assignment,
		Eval:       evalHandle,
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// confirmReset gates the destructive fleet-wide directory reset.
func confirmReset(cfg *config.Config, nodeCount int) bool {
	fmt.Printf("WARNING: this will DELETE %s on all %d clients of %q and replace its contents.\n",
		cfg.Remote.Dest, nodeCount, cfg.Inventory.Group)
	fmt.Print("Continue? [y/N]: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printReport(report *distribute.Report) {
	failed := report.Failed()
	for _, res := range report.Results {
		if res.OK() {
			fmt.Printf("  %-12s ok\n", res.Node)
			continue
		}
		fmt.Printf("  %-12s FAILED\n", res.Node)
		for _, e := range res.Errs {
			fmt.Printf("    %v\n", e)
		}
	}
	fmt.Println(report.Summary())

	if len(failed) > 0 {
		logger.Warn("some clients are missing data",
			zap.Int("failed", len(failed)),
			zap.Strings("nodes", failedNames(failed)))
	}
}

func failedNames(results []distribute.NodeResult) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Node
	}
	return names
}
