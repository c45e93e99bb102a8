package shard

import (
	"fmt"
	"os"
)

// NewScratch creates a fresh run-scoped scratch directory. The returned
// cleanup removes it and everything in it; callers defer it immediately
// so the scratch is discarded on every exit path.
func NewScratch() (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "fedsplit-*")
	if err != nil {
		return "", nil, fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
