// Package inventory resolves the ordered participant node list for a
// named group by querying the fabric's inventory subsystem.
//
// The order the inventory reports is authoritative: the distributor keys
// shard assignment off these names, so this package never sorts or
// deduplicates what the fabric returns.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/profkuhl/federated-learning/internal/fabric"
)

// DefaultGroup is the inventory group holding federated-learning clients.
const DefaultGroup = "nvflare_clients"

// Node identifies one participant. The name is how the fabric addresses
// the host; per-node operations target it directly.
type Node struct {
	Name string
}

// Directory queries the fabric for group membership.
type Directory struct {
	client *fabric.Client
	logger *zap.Logger
}

// NewDirectory returns a Directory backed by the given fabric client.
func NewDirectory(client *fabric.Client, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{client: client, logger: logger}
}

// groupEntry is the slice of `ansible-inventory --list` output we consume:
// each group key maps to an object carrying a "hosts" array.
type groupEntry struct {
	Hosts []string `json:"hosts"`
}

// Resolve returns the group's nodes in fabric-reported order.
//
// A missing inventory source, an absent group, or a group with zero hosts
// are membership errors (ErrInventoryNotFound, ErrGroupNotFound,
// ErrNoHosts). A failing or unparseable query is a *QueryError carrying
// the captured diagnostic output.
func (d *Directory) Resolve(ctx context.Context, group string) ([]Node, error) {
	if _, err := os.Stat(d.client.Inventory); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInventoryNotFound, d.client.Inventory)
	}

	res, err := d.client.ListInventory(ctx)
	if err != nil {
		qe := &QueryError{Err: err}
		if res != nil {
			qe.Stderr = res.Stderr
		}
		return nil, qe
	}

	var groups map[string]groupEntry
	if err := json.Unmarshal([]byte(res.Stdout), &groups); err != nil {
		return nil, &QueryError{Err: fmt.Errorf("parse inventory output: %w", err), Stderr: res.Stderr}
	}

	entry, ok := groups[group]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrGroupNotFound, group, d.client.Inventory)
	}
	if len(entry.Hosts) == 0 {
		return nil, fmt.Errorf("%w: group %q", ErrNoHosts, group)
	}

	nodes := make([]Node, len(entry.Hosts))
	for i, name := range entry.Hosts {
		nodes[i] = Node{Name: name}
	}

	d.logger.Info("resolved inventory group",
		zap.String("group", group),
		zap.Int("nodes", len(nodes)))

	return nodes, nil
}

// Names flattens a node list for logs and reports.
func Names(nodes []Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	return names
}
