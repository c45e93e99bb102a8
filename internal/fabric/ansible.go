package fabric

import (
	"context"
	"fmt"
	"time"
)

// Ansible module and argument vocabulary used by the client.
const (
	inventoryBinary = "ansible-inventory"
	adhocBinary     = "ansible"

	moduleFile = "file"
	moduleCopy = "copy"

	// DirMode is the permission applied to recreated remote directories.
	DirMode = "0755"

	// FileMode is the permission applied to copied shard files.
	FileMode = "0644"
)

// Timeouts for the two classes of fabric calls.
const (
	// InventoryTimeout bounds inventory list queries.
	InventoryTimeout = 10 * time.Second

	// OperationTimeout bounds file and copy module calls.
	OperationTimeout = 60 * time.Second
)

// Client issues Ansible ad-hoc calls against one inventory file. A target
// is either a group name (fleet-wide) or a single node name (per-node);
// copies are always per-node.
type Client struct {
	// Inventory is the inventory source path passed with -i.
	Inventory string

	// Runner executes the built command lines.
	Runner Runner

	// InventoryTimeout and OperationTimeout override the package defaults
	// when non-zero.
	InventoryTimeout time.Duration
	OperationTimeout time.Duration
}

// NewClient returns a Client with the default timeouts.
func NewClient(inventory string, runner Runner) *Client {
	return &Client{
		Inventory:        inventory,
		Runner:           runner,
		InventoryTimeout: InventoryTimeout,
		OperationTimeout: OperationTimeout,
	}
}

// ListInventory runs `ansible-inventory --list` and returns its output.
func (c *Client) ListInventory(ctx context.Context) (*Result, error) {
	return c.Runner.Run(ctx, Command{
		Binary:  inventoryBinary,
		Args:    []string{"-i", c.Inventory, "--list"},
		Timeout: c.InventoryTimeout,
	})
}

// RemoveDir deletes a remote path on the target (state=absent).
func (c *Client) RemoveDir(ctx context.Context, target, path string) (*Result, error) {
	return c.adhoc(ctx, target, moduleFile, fmt.Sprintf("path=%s state=absent", path))
}

// CreateDir creates a remote directory on the target with DirMode.
func (c *Client) CreateDir(ctx context.Context, target, path string) (*Result, error) {
	return c.adhoc(ctx, target, moduleFile, fmt.Sprintf("path=%s state=directory mode=%s", path, DirMode))
}

// Copy transfers one local file to one node with FileMode. node must be a
// single node name, never a group.
func (c *Client) Copy(ctx context.Context, node, src, dest string) (*Result, error) {
	return c.adhoc(ctx, node, moduleCopy, fmt.Sprintf("src=%s dest=%s mode=%s", src, dest, FileMode))
}

func (c *Client) adhoc(ctx context.Context, target, module, args string) (*Result, error) {
	return c.Runner.Run(ctx, Command{
		Binary:  adhocBinary,
		Args:    []string{"-i", c.Inventory, target, "-m", module, "-a", args},
		Timeout: c.OperationTimeout,
	})
}
