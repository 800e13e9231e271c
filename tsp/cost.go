// Package tsp - cost utilities shared by all solvers.
//
// This file provides small, allocation-free helpers to compute the total cost
// of a closed tour represented by a vertex index sequence.
//
// Design:
//   - Strict sentinels from types.go on any invalid input.
//   - Summation runs in route order, so the reported distance is exactly the
//     sum of consecutive metric evaluations along the route.
//   - Stable summation: rounded to 1e-9 to avoid cross-platform FP noise.
//
// Complexity:
//   - O(n) time for a tour of length n+1, O(1) extra space.
package tsp

import (
	"math"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// TourCost sums dist[tour[i]][tour[i+1]] along the tour.
//
// Contract:
//   - len(tour) >= 2 and indices within [0..n-1] where n = dist.Rows().
//
// Errors: ErrInvalidTour on shape/index violations.
//
// Complexity: O(n).
func TourCost(dist matrix.Matrix, tour []int) (float64, error) {
	if dist == nil || len(tour) < 2 {
		return 0, ErrInvalidTour
	}

	var (
		sum float64
		w   float64
		err error
		i   int
		L   = len(tour) - 1 // last index used as closing
	)
	for i = 0; i < L; i++ {
		w, err = edgeCost(dist, tour[i], tour[i+1])
		if err != nil {
			return 0, err
		}
		sum += w
	}

	return round1e9(sum), nil
}

// RouteDistance recomputes the length of route directly from the Euclidean
// metric, without a distance table. It is the reference used to check that a
// Solution's Distance matches its Route.
//
// Complexity: O(n).
func RouteDistance(cities []City, route Route) (float64, error) {
	if len(route) < 2 {
		return 0, nil
	}

	var (
		n   = len(cities)
		sum float64
		u   int
		v   int
		i   int
	)
	for i = 0; i+1 < len(route); i++ {
		u, v = route[i], route[i+1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return 0, ErrInvalidTour
		}
		sum += matrix.Distance(cities[u], cities[v])
	}

	return round1e9(sum), nil
}

// edgeCost fetches the weight for a single edge u→v with strict validation.
//
// Complexity: O(1).
func edgeCost(m matrix.Matrix, u, v int) (float64, error) {
	var n = m.Rows()
	if u < 0 || u >= n || v < 0 || v >= n {
		return 0, ErrInvalidTour
	}

	w, err := m.At(u, v)
	if err != nil {
		return 0, ErrInvalidTour
	}
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0, ErrInvalidInput
	}

	return w, nil
}

// round1e9 returns x rounded to 1e-9 absolute precision. Magnitudes whose
// scaled value is not finite are returned unchanged; at that size a float64
// has no fractional digits left to round.
//
// Complexity: O(1).
func round1e9(x float64) float64 {
	var scaled = x * roundScale
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return x
	}

	return math.Round(scaled) / roundScale
}
