// Package split computes how a dataset is divided across participant sites.
//
// A Method names the weighting function that controls the skew of the
// division; Allocate turns (total samples, site count, method) into a
// per-site share vector; Partition turns a share vector into disjoint
// index groups over a shuffled index space.
package split

import (
	"fmt"
	"math"
	"math/rand"
)

// Method is a named skew policy for dividing samples across sites.
type Method string

const (
	// MethodUniform gives every site the same weight.
	MethodUniform Method = "uniform"

	// MethodLinear weights site i by i, for i in 1..M.
	MethodLinear Method = "linear"

	// MethodSquare weights site i by i^2.
	MethodSquare Method = "square"

	// MethodExponential weights site i by e^i.
	MethodExponential Method = "exponential"
)

// Methods lists the recognized methods in declaration order.
func Methods() []Method {
	return []Method{MethodUniform, MethodLinear, MethodSquare, MethodExponential}
}

// ParseMethod validates a method name from config or CLI input.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodUniform, MethodLinear, MethodSquare, MethodExponential:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q (want one of uniform, linear, square, exponential)", ErrUnknownMethod, s)
}

// Shares is a per-site sample-count vector. It always sums to the total
// sample count it was allocated from.
type Shares []int

// Sum returns the total number of samples covered by the vector.
func (s Shares) Sum() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Weights returns the raw weight vector w[0..sites-1] for a method, with
// the weight argument linearly spaced from 1 to sites.
func Weights(m Method, sites int) ([]float64, error) {
	if sites < 1 {
		return nil, fmt.Errorf("%w: sites=%d", ErrInvalidCount, sites)
	}
	w := make([]float64, sites)
	for i := 0; i < sites; i++ {
		x := linspace(1, float64(sites), sites, i)
		switch m {
		case MethodUniform:
			w[i] = 1
		case MethodLinear:
			w[i] = x
		case MethodSquare:
			w[i] = x * x
		case MethodExponential:
			w[i] = math.Exp(x)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
		}
	}
	return w, nil
}

// linspace returns element i of n points evenly spaced over [lo, hi].
func linspace(lo, hi float64, n, i int) float64 {
	if n == 1 {
		return lo
	}
	return lo + (hi-lo)*float64(i)/float64(n-1)
}

// Allocate computes the per-site share vector for total samples over sites
// using the given method.
//
// Each of the first sites-1 entries is floor(total * w[i] / sum(w)),
// floored to 1 when feasible and clamped so the unallocated pool always
// reserves one sample for every site still waiting. The last site absorbs
// the remainder, so the vector sums to total exactly. When total < sites
// the reserve cannot be honored and trailing sites may receive 0; that is
// accepted, not an error.
func Allocate(total, sites int, m Method) (Shares, error) {
	if sites < 1 {
		return nil, fmt.Errorf("%w: sites=%d", ErrInvalidCount, sites)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: total=%d", ErrInvalidCount, total)
	}

	w, err := Weights(m, sites)
	if err != nil {
		return nil, err
	}
	sum := 0.0
	for _, x := range w {
		sum += x
	}

	shares := make(Shares, 0, sites)
	left := total
	for i := 0; i < sites-1; i++ {
		n := int(float64(total) * w[i] / sum)
		if n < 1 {
			n = 1
		}
		// Reserve one sample for every still-unassigned site. When total
		// < sites the reserve is unaffordable and the share bottoms out
		// at 0.
		if reserve := left - (sites - 1 - i); n > reserve {
			n = reserve
		}
		if n < 0 {
			n = 0
		}
		left -= n
		shares = append(shares, n)
	}
	shares = append(shares, left)
	return shares, nil
}

// Partition shuffles [0, total) and slices it into contiguous runs sized
// by shares, in order. The groups are pairwise disjoint and cover the full
// index range. The shuffle uses no fixed seed; runs are not reproducible.
func Partition(total int, shares Shares) [][]int {
	perm := rand.Perm(total)
	groups := make([][]int, 0, len(shares))
	at := 0
	for _, size := range shares {
		groups = append(groups, perm[at:at+size])
		at += size
	}
	return groups
}
