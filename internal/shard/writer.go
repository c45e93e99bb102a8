// Package shard persists per-node dataset slices to local scratch storage
// ahead of distribution.
//
// Each shard file holds one (features, labels) tensor pair, gob-encoded.
// Per-node training shards are named <node>_train.gob; the shared
// evaluation shard is test_data.gob and is sent identically to every node.
package shard

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/profkuhl/federated-learning/internal/dataset"
)

const (
	// TrainSuffix is appended to a node name to form its shard file name.
	TrainSuffix = "_train.gob"

	// EvalFileName is the shared evaluation shard file name.
	EvalFileName = "test_data.gob"
)

// Handle describes one persisted shard.
type Handle struct {
	// Node is the owning node name, or empty for the evaluation shard.
	Node string

	// Path is the local scratch file.
	Path string

	// Samples is how many rows the shard holds.
	Samples int
}

// payload is the on-disk shape of a shard file.
type payload struct {
	Features dataset.Tensor
	Labels   dataset.Tensor
}

// Writer serializes dataset slices into a scratch directory.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter returns a Writer rooted at the given scratch directory.
func NewWriter(dir string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, logger: logger}
}

// WriteTrain persists one node's private training slice.
func (w *Writer) WriteTrain(node string, ds dataset.Dataset) (Handle, error) {
	return w.write(node, node+TrainSuffix, ds)
}

// WriteEval persists the shared evaluation slice.
func (w *Writer) WriteEval(ds dataset.Dataset) (Handle, error) {
	return w.write("", EvalFileName, ds)
}

func (w *Writer) write(node, name string, ds dataset.Dataset) (Handle, error) {
	path := filepath.Join(w.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return Handle{}, fmt.Errorf("create shard %s: %w", name, err)
	}

	if err := gob.NewEncoder(file).Encode(payload{Features: ds.Features, Labels: ds.Labels}); err != nil {
		file.Close()
		return Handle{}, fmt.Errorf("encode shard %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return Handle{}, fmt.Errorf("close shard %s: %w", name, err)
	}

	w.logger.Debug("wrote shard",
		zap.String("file", name),
		zap.Int("samples", ds.Len()))

	return Handle{Node: node, Path: path, Samples: ds.Len()}, nil
}

// Read loads a shard file back into a Dataset. Used for verification and
// by tests.
func Read(path string) (dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("open shard: %w", err)
	}
	defer file.Close()

	var p payload
	if err := gob.NewDecoder(file).Decode(&p); err != nil {
		return dataset.Dataset{}, fmt.Errorf("decode shard: %w", err)
	}
	return dataset.New(p.Features, p.Labels)
}
