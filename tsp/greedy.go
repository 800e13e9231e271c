// Package tsp - nearest-neighbor tour construction.
//
// NearestNeighbor starts at a given city and repeatedly moves to the closest
// unvisited city, then closes the tour by returning to the start.
//
// Determinism:
//   - Candidates are scanned in ascending index order and only a strictly
//     shorter edge replaces the current choice, so ties go to the lowest index.
//   - For a fixed start the result is fully determined by the input.
//
// Complexity: O(n²) time, O(n) extra space (plus the O(n²) table when built here).
package tsp

import (
	"math"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// NearestNeighbor builds a greedy closed tour over cities from start.
//
// Degenerate cases:
//   - 0 cities → empty route, distance 0.
//   - 1 city   → single-element route [start], distance 0.
//
// Errors: ErrStartOutOfRange, ErrInvalidInput (non-finite coordinates).
func NearestNeighbor(cities []City, start int) (Solution, error) {
	var n = len(cities)
	if n == 0 {
		return Solution{Route: Route{}}, nil
	}
	if err := validateStartVertex(n, start); err != nil {
		return Solution{}, err
	}
	if n == 1 {
		return Solution{Route: Route{start}}, nil
	}

	dist, err := distanceTable(cities)
	if err != nil {
		return Solution{}, err
	}

	return nearestNeighborTour(dist, start)
}

// nearestNeighborTour runs the greedy construction on a prepared table.
// dist is only read, so concurrent calls may share it.
//
// Contract: dist is n×n with n ≥ 2; 0 ≤ start < n.
//
// Complexity: O(n²).
func nearestNeighborTour(dist matrix.Matrix, start int) (Solution, error) {
	var n = dist.Rows()
	if err := validateStartVertex(n, start); err != nil {
		return Solution{}, err
	}

	var (
		visited = make([]bool, n)
		route   = make(Route, 0, n+1)
		cur     = start
		total   float64
		next    int
		best    float64
		w       float64
		err     error
		step    int
		j       int
	)
	visited[start] = true
	route = append(route, start)

	for step = 1; step < n; step++ {
		next = -1
		best = math.Inf(1)
		for j = 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if w, err = edgeCost(dist, cur, j); err != nil {
				return Solution{}, err
			}
			// Strict comparison keeps the lowest index on ties.
			if w < best {
				best = w
				next = j
			}
		}
		visited[next] = true
		route = append(route, next)
		total += best
		cur = next
	}

	// Close the cycle back to the start.
	if w, err = edgeCost(dist, cur, start); err != nil {
		return Solution{}, err
	}
	total += w
	route = append(route, start)

	return Solution{Route: route, Distance: round1e9(total)}, nil
}
