package split

import "errors"

// Split policy errors.
var (
	// ErrUnknownMethod is returned for a method name outside the four
	// recognized skew policies.
	ErrUnknownMethod = errors.New("unknown split method")

	// ErrInvalidCount is returned when the site or sample count makes a
	// split meaningless.
	ErrInvalidCount = errors.New("invalid count")
)
