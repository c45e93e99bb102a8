package shard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profkuhl/federated-learning/internal/dataset"
)

func TestWriteTrainRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	ds, err := dataset.FromSlices([][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{0, 1, 0})
	require.NoError(t, err)

	h, err := w.WriteTrain("site-1", ds)
	require.NoError(t, err)
	assert.Equal(t, "site-1", h.Node)
	assert.Equal(t, 3, h.Samples)
	assert.Equal(t, filepath.Join(dir, "site-1_train.gob"), h.Path)

	got, err := Read(h.Path)
	require.NoError(t, err)
	if diff := cmp.Diff(ds, got); diff != "" {
		t.Errorf("round trip mismatch:\n%s", diff)
	}
}

func TestWriteEval(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	ds, err := dataset.FromSlices([][]float64{{9, 9}}, []float64{1})
	require.NoError(t, err)

	h, err := w.WriteEval(ds)
	require.NoError(t, err)
	assert.Empty(t, h.Node)
	assert.Equal(t, filepath.Join(dir, EvalFileName), h.Path)

	got, err := Read(h.Path)
	require.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestWriteFailsOnMissingDir(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "does", "not", "exist"), nil)

	ds, err := dataset.FromSlices([][]float64{{1}}, []float64{0})
	require.NoError(t, err)

	_, err = w.WriteTrain("site-1", ds)
	assert.Error(t, err)
}

func TestReadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk.gob")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := Read(path)
	assert.Error(t, err)
}
