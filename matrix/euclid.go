// SPDX-License-Identifier: MIT

// Package matrix - Euclidean distance tables.
//
// NewEuclidean materializes the pairwise Euclidean metric of a point set into
// a symmetric *Dense with a zero diagonal. Route solvers read distances from
// this table instead of recomputing square roots inside their O(n²) loops,
// so every solver of one request shares exactly the same metric values.
package matrix

import "math"

// Distance returns the Euclidean norm of a-b. Distance(a,b) == Distance(b,a)
// bit-for-bit. math.Hypot avoids the intermediate overflow of dx*dx, so any
// distance representable as a float64 is returned finite.
//
// Complexity: O(1).
func Distance(a, b Point) float64 {
	var (
		dx = a.X - b.X
		dy = a.Y - b.Y
	)

	return math.Hypot(dx, dy)
}

// NewEuclidean builds the n×n distance table for pts.
//
// Contract:
//   - len(pts) ≥ 1; every coordinate is finite.
//   - Result is symmetric with a zero diagonal; entry (i,j) == Distance(pts[i], pts[j]).
//
// Errors:
//   - ErrInvalidDimensions if pts is empty.
//   - ErrNaNInf if any coordinate (or resulting distance) is not finite.
//
// Complexity: O(n²) time, O(n²) space.
func NewEuclidean(pts []Point) (*Dense, error) {
	var n = len(pts)
	if n == 0 {
		return nil, ErrInvalidDimensions
	}

	var i, j int
	for i = 0; i < n; i++ {
		if !finite(pts[i].X) || !finite(pts[i].Y) {
			return nil, ErrNaNInf
		}
	}

	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}

	// Fill the upper triangle and mirror; diagonal stays zero from NewDense.
	var d float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			d = Distance(pts[i], pts[j])
			// Differences beyond MaxFloat64 surface here as +Inf.
			if !finite(d) {
				return nil, ErrNaNInf
			}
			m.data[i*n+j] = d
			m.data[j*n+i] = d
		}
	}

	return m, nil
}

// finite reports whether x is neither NaN nor ±Inf.
func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
