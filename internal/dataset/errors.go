package dataset

import "errors"

// Dataset validation errors.
var (
	// ErrLengthMismatch is returned when features and labels disagree on
	// the sample count.
	ErrLengthMismatch = errors.New("features and labels length mismatch")

	// ErrRaggedRows is returned when feature rows have uneven widths.
	ErrRaggedRows = errors.New("ragged feature rows")
)
