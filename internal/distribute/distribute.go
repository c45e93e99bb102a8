// Package distribute delivers written shards to their owning nodes over
// the fabric.
//
// A run has two phases. The reset phase deletes and recreates the remote
// destination directory fleet-wide; it is destructive, unconditional, and
// fatal on failure. The transfer phase copies each node's private shard
// plus the shared evaluation shard to that node only; a failed copy is
// recorded in the report and the run continues with the remaining nodes.
package distribute

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/profkuhl/federated-learning/internal/fabric"
	"github.com/profkuhl/federated-learning/internal/inventory"
	"github.com/profkuhl/federated-learning/internal/shard"
)

// Assignment maps node names to their private training shards. Building
// it explicitly, keyed by name rather than list position, is what keeps a
// reordered inventory from silently delivering the wrong shard.
type Assignment map[string]shard.Handle

// NewAssignment pairs shards with nodes by name and fails fast on any
// mismatch between the two sets.
func NewAssignment(shards []shard.Handle, nodes []inventory.Node) (Assignment, error) {
	if len(shards) != len(nodes) {
		return nil, fmt.Errorf("%w: %d shards for %d nodes", ErrAssignmentMismatch, len(shards), len(nodes))
	}

	byNode := make(Assignment, len(shards))
	for _, s := range shards {
		if _, dup := byNode[s.Node]; dup {
			return nil, fmt.Errorf("%w: duplicate shard for node %q", ErrAssignmentMismatch, s.Node)
		}
		byNode[s.Node] = s
	}
	for _, n := range nodes {
		if _, ok := byNode[n.Name]; !ok {
			return nil, fmt.Errorf("%w: no shard for node %q", ErrAssignmentMismatch, n.Name)
		}
	}
	return byNode, nil
}

// Plan is everything one distribution run needs.
type Plan struct {
	// Group is the inventory group targeted by fleet-wide operations.
	Group string

	// RemoteDest is the destination directory on every node. Its existing
	// content is destroyed during the reset phase.
	RemoteDest string

	// Nodes in fabric order; transfer results are reported in this order.
	Nodes []inventory.Node

	// Assignment holds each node's private shard.
	Assignment Assignment

	// Eval is the shared evaluation shard copied to every node.
	Eval shard.Handle
}

// NodeResult is the transfer outcome for one node.
type NodeResult struct {
	Node    string
	TrainOK bool
	EvalOK  bool
	Errs    []error
}

// OK reports whether both copies landed.
func (r NodeResult) OK() bool { return r.TrainOK && r.EvalOK }

// Report enumerates per-node outcomes for one run.
type Report struct {
	RunID   string
	Results []NodeResult
}

// Failed returns the nodes with at least one failed copy.
func (r *Report) Failed() []NodeResult {
	var failed []NodeResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Summary renders a one-line outcome for the CLI.
func (r *Report) Summary() string {
	failed := len(r.Failed())
	ok := len(r.Results) - failed
	if failed == 0 {
		return fmt.Sprintf("distributed shards to all %d nodes", ok)
	}
	return fmt.Sprintf("partial success: %d of %d nodes received shards", ok, len(r.Results))
}

// Distributor runs distribution plans over a fabric client.
type Distributor struct {
	client *fabric.Client
	logger *zap.Logger

	// Workers bounds concurrent per-node transfers. 1 delivers strictly
	// in node order.
	Workers int
}

// New returns a Distributor. workers < 1 is treated as 1.
func New(client *fabric.Client, workers int, logger *zap.Logger) *Distributor {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Distributor{client: client, logger: logger, Workers: workers}
}

// Run executes the plan. It returns an error only for reset-phase
// failures; per-node transfer failures are recorded in the report and the
// returned error is nil. Callers must inspect Report.Failed.
func (d *Distributor) Run(ctx context.Context, plan Plan) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Results: make([]NodeResult, len(plan.Nodes)),
	}
	logger := d.logger.With(zap.String("run_id", report.RunID), zap.String("group", plan.Group))

	if err := d.reset(ctx, logger, plan); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Workers)
	var mu sync.Mutex

	for i, node := range plan.Nodes {
		i, node := i, node
		g.Go(func() error {
			result := d.transfer(gctx, logger, plan, node.Name)
			mu.Lock()
			report.Results[i] = result
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures live in the report.
	_ = g.Wait()

	logger.Info("distribution finished",
		zap.Int("nodes", len(plan.Nodes)),
		zap.Int("failed", len(report.Failed())))

	return report, nil
}

// reset destroys and recreates the remote destination on every node in
// the group. Partial effect on failure is possible and is not rolled
// back.
func (d *Distributor) reset(ctx context.Context, logger *zap.Logger, plan Plan) error {
	logger.Warn("deleting remote directory fleet-wide",
		zap.String("path", plan.RemoteDest),
		zap.Int("nodes", len(plan.Nodes)))

	if res, err := d.client.RemoveDir(ctx, plan.Group, plan.RemoteDest); err != nil {
		return resetError("delete", plan.RemoteDest, res, err)
	}
	if res, err := d.client.CreateDir(ctx, plan.Group, plan.RemoteDest); err != nil {
		return resetError("recreate", plan.RemoteDest, res, err)
	}
	return nil
}

func resetError(op, dest string, res *fabric.Result, err error) error {
	if res != nil && res.Stderr != "" {
		return fmt.Errorf("%w: %s %s: %v: %s", ErrResetFailed, op, dest, err, res.Stderr)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrResetFailed, op, dest, err)
}

// transfer copies one node's private shard and the shared evaluation
// shard to that node. Each copy fails independently; both failures are
// recorded against the node.
func (d *Distributor) transfer(ctx context.Context, logger *zap.Logger, plan Plan, node string) NodeResult {
	result := NodeResult{Node: node}

	train := plan.Assignment[node]
	if err := d.copy(ctx, node, train.Path, plan.RemoteDest); err != nil {
		result.Errs = append(result.Errs, &TransferError{Node: node, File: path.Base(train.Path), Err: err})
		logger.Error("train shard copy failed", zap.String("node", node), zap.Error(err))
	} else {
		result.TrainOK = true
	}

	if err := d.copy(ctx, node, plan.Eval.Path, plan.RemoteDest); err != nil {
		result.Errs = append(result.Errs, &TransferError{Node: node, File: path.Base(plan.Eval.Path), Err: err})
		logger.Error("evaluation shard copy failed", zap.String("node", node), zap.Error(err))
	} else {
		result.EvalOK = true
	}

	if result.OK() {
		logger.Info("node received shards",
			zap.String("node", node),
			zap.Int("train_samples", train.Samples))
	}
	return result
}

func (d *Distributor) copy(ctx context.Context, node, src, remoteDir string) error {
	dest := path.Join(remoteDir, path.Base(src))
	res, err := d.client.Copy(ctx, node, src, dest)
	if err != nil {
		if res != nil && res.Stderr != "" {
			return fmt.Errorf("copy %s: %w: %s", dest, err, res.Stderr)
		}
		return fmt.Errorf("copy %s: %w", dest, err)
	}
	return nil
}
