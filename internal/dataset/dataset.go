// Package dataset holds the in-memory representation of a labeled dataset
// and the row-gather operations the partitioner needs.
package dataset

import "fmt"

// Tensor is a dense row-major numeric array: 2-D for features
// (Rows x Cols) and 1-D for labels (Cols == 1).
type Tensor struct {
	Rows int
	Cols int
	Data []float64
}

// NewTensor allocates a zero tensor.
func NewTensor(rows, cols int) Tensor {
	return Tensor{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// FromRows builds a 2-D tensor from nested row slices. All rows must have
// the same width.
func FromRows(rows [][]float64) (Tensor, error) {
	if len(rows) == 0 {
		return Tensor{}, nil
	}
	cols := len(rows[0])
	t := NewTensor(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return Tensor{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRows, i, len(row), cols)
		}
		copy(t.Data[i*cols:], row)
	}
	return t, nil
}

// FromVector builds a 1-D tensor from a flat slice.
func FromVector(v []float64) Tensor {
	t := Tensor{Rows: len(v), Cols: 1, Data: make([]float64, len(v))}
	copy(t.Data, v)
	return t
}

// Row returns row i as a slice view into the tensor.
func (t Tensor) Row(i int) []float64 {
	return t.Data[i*t.Cols : (i+1)*t.Cols]
}

// Gather copies the given rows, in order, into a new tensor.
func (t Tensor) Gather(indices []int) Tensor {
	out := NewTensor(len(indices), t.Cols)
	for i, idx := range indices {
		copy(out.Data[i*t.Cols:], t.Row(idx))
	}
	return out
}

// Dataset pairs a feature tensor with its label vector. Row i of Features
// corresponds to element i of Labels.
type Dataset struct {
	Features Tensor
	Labels   Tensor
}

// New validates the feature/label pairing.
func New(features, labels Tensor) (Dataset, error) {
	if features.Rows != labels.Rows {
		return Dataset{}, fmt.Errorf("%w: %d features vs %d labels", ErrLengthMismatch, features.Rows, labels.Rows)
	}
	return Dataset{Features: features, Labels: labels}, nil
}

// FromSlices normalizes native numeric slices into tensors and validates
// the pairing.
func FromSlices(features [][]float64, labels []float64) (Dataset, error) {
	ft, err := FromRows(features)
	if err != nil {
		return Dataset{}, err
	}
	return New(ft, FromVector(labels))
}

// Len returns the number of samples.
func (d Dataset) Len() int { return d.Labels.Rows }

// Select gathers the rows named by an index group into a new dataset.
func (d Dataset) Select(indices []int) Dataset {
	return Dataset{
		Features: d.Features.Gather(indices),
		Labels:   d.Labels.Gather(indices),
	}
}

// Head returns the first n samples and Tail the rest. Used to carve the
// evaluation slice off the front of a loaded dataset.
func (d Dataset) Head(n int) Dataset {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.Select(idx)
}

// Tail returns the samples from n onward.
func (d Dataset) Tail(n int) Dataset {
	idx := make([]int, d.Len()-n)
	for i := range idx {
		idx[i] = n + i
	}
	return d.Select(idx)
}
