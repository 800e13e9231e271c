// Package tsp - tour utilities shared by all solvers.
//
// This file contains compact utilities that operate purely on tour structure
// (index sequences), without depending on distance tables:
//   - ValidateTour: enforce closed-tour invariants.
//   - CopyTour: independent copy of a tour slice.
//   - DebugString: compact printable representation for tests/errors.
package tsp

import (
	"fmt"
	"strings"
)

// ValidateTour enforces closed-tour invariants:
//
//	len(tour) == n+1, tour[0]==tour[n]==start,
//	each vertex v∈[0..n-1] appears exactly once in positions [0..n-1].
//
// Returns nil if valid.
//
// Complexity: O(n) time, O(n) space.
func ValidateTour(tour []int, n int, start int) error {
	if n <= 0 {
		return ErrInvalidTour
	}
	if len(tour) != n+1 {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidTour, len(tour), n+1)
	}
	if err := validateStartVertex(n, start); err != nil {
		return err
	}
	if tour[0] != start || tour[n] != start {
		return fmt.Errorf("%w: %s does not start and end at %d", ErrInvalidTour, DebugString(tour), start)
	}

	seen := make([]bool, n)

	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		v = tour[i]
		if v < 0 || v >= n {
			return fmt.Errorf("%w: vertex %d out of range", ErrInvalidTour, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: vertex %d visited twice", ErrInvalidTour, v)
		}
		seen[v] = true
	}

	return nil
}

// CopyTour returns an independent copy of the input tour slice.
//
// Complexity: O(n) time, O(n) space.
func CopyTour(tour []int) []int {
	if tour == nil {
		return nil
	}
	out := make([]int, len(tour))
	copy(out, tour)

	return out
}

// DebugString returns a compact printable representation for tests/debug,
// e.g. "[0 3 1 2 | 0]" where the vertical bar marks the closure.
//
// Complexity: O(n) time, O(n) space for formatting.
func DebugString(tour []int) string {
	if len(tour) == 0 {
		return "[]"
	}
	var (
		n  = len(tour) - 1
		sb strings.Builder
		i  int
	)
	sb.WriteString("[")
	for i = 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d", tour[i])
	}
	fmt.Fprintf(&sb, " | %d]", tour[n])

	return sb.String()
}
