package distribute

import (
	"errors"
	"fmt"
)

// Distribution errors.
var (
	// ErrResetFailed is returned when the fleet-wide delete/recreate of
	// the remote destination fails. No transfers are attempted after it.
	ErrResetFailed = errors.New("remote directory reset failed")

	// ErrAssignmentMismatch is returned when shards and nodes cannot be
	// paired one to one by name.
	ErrAssignmentMismatch = errors.New("shard/node assignment mismatch")
)

// TransferError records one failed copy to one node. It is stored in the
// report, never returned from Run.
type TransferError struct {
	Node string
	File string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s to %s: %v", e.File, e.Node, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
