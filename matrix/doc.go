// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric storage used by the route solvers.
//
// The package offers:
//
//   - Matrix, a minimal read/write interface with error-returning accessors.
//   - Dense, a row-major implementation that rejects NaN/±Inf on Set.
//   - Point and NewEuclidean, which materialize the symmetric pairwise
//     distance table of a 2-D point set once per request.
//
// All accessors are bounds-checked and return sentinel errors
// (ErrOutOfRange, ErrNaNInf, ...) wrapped with the call site; nothing panics
// on user input.
package matrix
