// Package matrix is the dense linear-system container used by all three
// analyses: an (n+m)x(n+m) coefficient matrix plus right-hand side, with
// additive stamping and Gaussian elimination with partial pivoting. It is
// pure numerical linear algebra and has no knowledge of circuits.
package matrix

import (
	"fmt"
	"math"
	"math/cmplx"

	"golang.org/x/exp/constraints"

	"github.com/edacraft/circuitsim/internal/consts"
)

// Scalar is the coefficient type: real for DC/transient, complex for AC.
// The elimination algorithm is identical for both.
type Scalar interface {
	constraints.Float | constraints.Complex
}

// System is a square dense system in a flat row-major buffer. Indexing is
// 1-based; row/column 0 is the ground reference and contributions to it are
// dropped, which keeps the per-component stamp code free of special cases.
type System[T Scalar] struct {
	Size int
	a    []T // (Size+1)*(Size+1), row-major
	rhs  []T // Size+1
}

// Real and Complex are the two instantiations the solvers use.
type (
	Real    = System[float64]
	Complex = System[complex128]
)

func New[T Scalar](size int) *System[T] {
	n := size + 1
	return &System[T]{
		Size: size,
		a:    make([]T, n*n),
		rhs:  make([]T, n),
	}
}

// Add accumulates value at (i, j). Stamping never overwrites: multiple
// components contribute to the same entry.
func (s *System[T]) Add(i, j int, v T) {
	if i <= 0 || j <= 0 || i > s.Size || j > s.Size {
		return
	}
	s.a[i*(s.Size+1)+j] += v
}

// AddRHS accumulates value into the right-hand side at row i.
func (s *System[T]) AddRHS(i int, v T) {
	if i <= 0 || i > s.Size {
		return
	}
	s.rhs[i] += v
}

// At returns the accumulated coefficient at (i, j).
func (s *System[T]) At(i, j int) T {
	if i <= 0 || j <= 0 || i > s.Size || j > s.Size {
		var zero T
		return zero
	}
	return s.a[i*(s.Size+1)+j]
}

// RHS returns the accumulated right-hand side at row i.
func (s *System[T]) RHS(i int) T {
	if i <= 0 || i > s.Size {
		var zero T
		return zero
	}
	return s.rhs[i]
}

// Clear zeroes the matrix and RHS for a rebuild. Systems are rebuilt from
// scratch on every Newton-Raphson iteration and every time step.
func (s *System[T]) Clear() {
	for i := range s.a {
		s.a[i] = 0
	}
	for i := range s.rhs {
		s.rhs[i] = 0
	}
}

// LoadGmin adds g to the diagonal of rows 1..rows. The solvers use it to
// put the ground-leakage regularization on the net-voltage block only,
// leaving branch-constraint rows untouched.
func (s *System[T]) LoadGmin(rows int, g T) {
	if rows > s.Size {
		rows = s.Size
	}
	for i := 1; i <= rows; i++ {
		s.a[i*(s.Size+1)+i] += g
	}
}

// SingularError reports a pivot below the singularity threshold during
// elimination. Row is the 1-based offending row, which maps back to a net
// or branch unknown; it usually indicates a floating node or an unintended
// short.
type SingularError struct {
	Row   int
	Pivot float64
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("singular matrix: pivot %.3e below %.0e at row %d", e.Pivot, consts.PivotTol, e.Row)
}

// Solve runs Gaussian elimination with partial pivoting and returns the
// solution as a 1-based slice of length Size+1 with index 0 (ground) fixed
// at zero. The system itself is left untouched; elimination works on a copy.
func (s *System[T]) Solve() ([]T, error) {
	n := s.Size
	w := n + 1
	a := make([]T, len(s.a))
	copy(a, s.a)
	x := make([]T, w)
	copy(x, s.rhs)

	for k := 1; k <= n; k++ {
		// Largest-magnitude candidate in the active column.
		pivRow, pivMag := k, modulus(a[k*w+k])
		for r := k + 1; r <= n; r++ {
			if m := modulus(a[r*w+k]); m > pivMag {
				pivRow, pivMag = r, m
			}
		}
		if pivMag < consts.PivotTol {
			return nil, &SingularError{Row: k, Pivot: pivMag}
		}
		if pivRow != k {
			for c := k; c <= n; c++ {
				a[k*w+c], a[pivRow*w+c] = a[pivRow*w+c], a[k*w+c]
			}
			x[k], x[pivRow] = x[pivRow], x[k]
		}

		piv := a[k*w+k]
		for r := k + 1; r <= n; r++ {
			f := a[r*w+k] / piv
			if f == 0 {
				continue
			}
			a[r*w+k] = 0
			for c := k + 1; c <= n; c++ {
				a[r*w+c] -= f * a[k*w+c]
			}
			x[r] -= f * x[k]
		}
	}

	for k := n; k >= 1; k-- {
		sum := x[k]
		for c := k + 1; c <= n; c++ {
			sum -= a[k*w+c] * x[c]
		}
		x[k] = sum / a[k*w+k]
	}

	x[0] = 0
	return x, nil
}

// modulus is the pivot comparison magnitude: absolute value for reals,
// complex modulus for phasors.
func modulus[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case float64:
		return math.Abs(x)
	case float32:
		return math.Abs(float64(x))
	case complex128:
		return cmplx.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	}
	return 0
}
