// Package tsp - brute-force exact solver.
//
// BruteForce anchors the tour at city 0 (a cycle has no distinguished start,
// so fixing one vertex removes the n rotations of every tour) and enumerates
// the orderings of the remaining n−1 cities depth-first in lexicographic
// order. A branch is cut as soon as its partial length already exceeds the
// best complete tour, which cannot change the answer: extending a path only
// adds non-negative edges.
//
// Tie-break (pinned): lengths are compared after round1e9, the same rounding
// applied to reported distances. Among tours of equal rounded length the
// lexicographically smallest ordering wins, because enumeration is
// lexicographic, a prefix that only ties the incumbent is still explored, and
// only a strictly shorter tour replaces the incumbent. In particular, of a
// tour and its reversal the one with the smaller second city is returned.
//
// Complexity: O((n−1)!) time worst case, O(n) extra space.
package tsp

import (
	"fmt"
	"math"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// BruteForce returns a globally optimal closed tour starting at city 0.
//
// Contract: n ≤ ceiling; otherwise ErrSizeExceeded is returned without any
// search. Degenerate cases mirror NearestNeighbor (0 → empty, 1 → [0]).
//
// Errors: ErrSizeExceeded, ErrInvalidInput (non-finite coordinates).
func BruteForce(cities []City, ceiling int) (Solution, error) {
	var n = len(cities)
	if n > ceiling {
		return Solution{}, fmt.Errorf("%w: exact solver limited to %d cities, got %d", ErrSizeExceeded, ceiling, n)
	}
	if n == 0 {
		return Solution{Route: Route{}}, nil
	}
	if n == 1 {
		return Solution{Route: Route{0}}, nil
	}

	dist, err := distanceTable(cities)
	if err != nil {
		return Solution{}, err
	}
	sol, _, err := bruteForceTour(dist, ceiling)

	return sol, err
}

// exactSearch holds the mutable state of one depth-first enumeration.
type exactSearch struct {
	dist     matrix.Matrix
	n        int
	path     []int
	used     []bool
	best     []int
	bestCost float64 // rounded with round1e9
	complete int // number of full tours evaluated
}

// bruteForceTour runs the pruned enumeration on a prepared table and also
// reports how many complete tours were evaluated.
//
// Complexity: O((n−1)!) worst case.
func bruteForceTour(dist matrix.Matrix, ceiling int) (Solution, int, error) {
	var n = dist.Rows()
	if n > ceiling {
		return Solution{}, 0, fmt.Errorf("%w: exact solver limited to %d cities, got %d", ErrSizeExceeded, ceiling, n)
	}

	s := &exactSearch{
		dist:     dist,
		n:        n,
		path:     make([]int, n),
		used:     make([]bool, n),
		best:     make([]int, n),
		bestCost: math.Inf(1),
	}
	s.path[0] = 0
	s.used[0] = true

	if err := s.extend(1, 0); err != nil {
		return Solution{}, 0, err
	}

	route := Route(append(CopyTour(s.best), 0))

	return Solution{Route: route, Distance: s.bestCost}, s.complete, nil
}

// extend places a city at position depth, given the length of path[0..depth-1].
func (s *exactSearch) extend(depth int, partial float64) error {
	var (
		w   float64
		err error
	)
	if depth == s.n {
		if w, err = edgeCost(s.dist, s.path[s.n-1], 0); err != nil {
			return err
		}
		s.complete++
		if total := round1e9(partial + w); total < s.bestCost {
			s.bestCost = total
			copy(s.best, s.path)
		}

		return nil
	}

	var (
		prev = s.path[depth-1]
		c    int
		cand float64
	)
	for c = 1; c < s.n; c++ {
		if s.used[c] {
			continue
		}
		if w, err = edgeCost(s.dist, prev, c); err != nil {
			return err
		}
		cand = partial + w
		// Prune: completions of this prefix cannot even tie.
		if round1e9(cand) > s.bestCost {
			continue
		}
		s.used[c] = true
		s.path[depth] = c
		if err = s.extend(depth+1, cand); err != nil {
			return err
		}
		s.used[c] = false
	}

	return nil
}
