package fabric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner captures every command instead of executing it.
type recordingRunner struct {
	commands []Command
	result   *Result
	err      error
}

func (r *recordingRunner) Run(_ context.Context, cmd Command) (*Result, error) {
	r.commands = append(r.commands, cmd)
	if r.result != nil {
		return r.result, r.err
	}
	return &Result{ExitCode: 0}, r.err
}

func TestClientCommandLines(t *testing.T) {
	rec := &recordingRunner{}
	c := NewClient("hosts.ini", rec)
	ctx := context.Background()

	_, err := c.ListInventory(ctx)
	require.NoError(t, err)
	_, err = c.RemoveDir(ctx, "nvflare_clients", "/tmp/data")
	require.NoError(t, err)
	_, err = c.CreateDir(ctx, "nvflare_clients", "/tmp/data")
	require.NoError(t, err)
	_, err = c.Copy(ctx, "site-1", "/scratch/site-1_train.gob", "/tmp/data/site-1_train.gob")
	require.NoError(t, err)

	want := []Command{
		{
			Binary:  "ansible-inventory",
			Args:    []string{"-i", "hosts.ini", "--list"},
			Timeout: InventoryTimeout,
		},
		{
			Binary:  "ansible",
			Args:    []string{"-i", "hosts.ini", "nvflare_clients", "-m", "file", "-a", "path=/tmp/data state=absent"},
			Timeout: OperationTimeout,
		},
		{
			Binary:  "ansible",
			Args:    []string{"-i", "hosts.ini", "nvflare_clients", "-m", "file", "-a", "path=/tmp/data state=directory mode=0755"},
			Timeout: OperationTimeout,
		},
		{
			Binary:  "ansible",
			Args:    []string{"-i", "hosts.ini", "site-1", "-m", "copy", "-a", "src=/scratch/site-1_train.gob dest=/tmp/data/site-1_train.gob mode=0644"},
			Timeout: OperationTimeout,
		},
	}
	if diff := cmp.Diff(want, rec.commands); diff != "" {
		t.Errorf("command mismatch:\n%s", diff)
	}
}

func TestClientPropagatesRunnerError(t *testing.T) {
	rec := &recordingRunner{
		result: &Result{ExitCode: 2, Stderr: "unreachable"},
		err:    errors.New("exit status 2"),
	}
	c := NewClient("hosts.ini", rec)

	res, err := c.RemoveDir(context.Background(), "nvflare_clients", "/tmp/data")
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "unreachable", res.Stderr)
}

func TestExecRunner(t *testing.T) {
	r := NewExecRunner(5*time.Second, nil)

	t.Run("captures stdout", func(t *testing.T) {
		res, err := r.Run(context.Background(), Command{Binary: "echo", Args: []string{"hello"}})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "hello")
	})

	t.Run("nonzero exit returns result and error", func(t *testing.T) {
		res, err := r.Run(context.Background(), Command{Binary: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
		assert.Error(t, err)
		require.NotNil(t, res)
		assert.Equal(t, 3, res.ExitCode)
		assert.Contains(t, res.Stderr, "oops")
	})

	t.Run("timeout kills the command", func(t *testing.T) {
		start := time.Now()
		_, err := r.Run(context.Background(), Command{
			Binary:  "sleep",
			Args:    []string{"10"},
			Timeout: 200 * time.Millisecond,
		})
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("missing binary", func(t *testing.T) {
		res, err := r.Run(context.Background(), Command{Binary: "definitely-not-a-binary-xyz"})
		assert.Error(t, err)
		require.NotNil(t, res)
		assert.Equal(t, -1, res.ExitCode)
	})
}

func TestCommandString(t *testing.T) {
	cmd := Command{Binary: "ansible", Args: []string{"-i", "hosts.ini", "all"}}
	assert.Equal(t, "ansible -i hosts.ini all", cmd.String())
}
