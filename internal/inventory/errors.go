package inventory

import "errors"

// Inventory membership errors.
var (
	// ErrInventoryNotFound is returned when the inventory source path does
	// not exist.
	ErrInventoryNotFound = errors.New("inventory file not found")

	// ErrGroupNotFound is returned when the named group is absent from the
	// inventory output.
	ErrGroupNotFound = errors.New("group not found in inventory")

	// ErrNoHosts is returned when the group exists but contains no hosts.
	ErrNoHosts = errors.New("no hosts in inventory group")
)

// QueryError reports a failed or unparseable inventory query, as opposed
// to a well-formed inventory that simply lacks the group. Stderr carries
// the subprocess diagnostic output.
type QueryError struct {
	Err    error
	Stderr string
}

func (e *QueryError) Error() string {
	if e.Stderr != "" {
		return "inventory query failed: " + e.Err.Error() + ": " + e.Stderr
	}
	return "inventory query failed: " + e.Err.Error()
}

func (e *QueryError) Unwrap() error { return e.Err }
