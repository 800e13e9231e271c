// Package tsp_test provides lightweight testing helpers shared across *_test.go
// files in this package.
package tsp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Constants - single source of truth for test knobs
// -----------------------------------------------------------------------------

const (
	// epsCost is the tolerance for comparing rounded tour lengths.
	epsCost = 1e-9

	// seedDet is a deterministic seed for the sampled strategy.
	seedDet = int64(42)

	// propertyRuns is the number of random instances per property test.
	propertyRuns = 40
)

// -----------------------------------------------------------------------------
// Geometric generators
// -----------------------------------------------------------------------------

// unitSquare is the 4-city instance with optimal perimeter 4.
func unitSquare() []tsp.City {
	return []tsp.City{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

// crossFive is the 5-city "plus" instance used as a fixed exact baseline.
func crossFive() []tsp.City {
	return []tsp.City{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: -1}}
}

// randomCities draws n points uniformly in [0,100)² from a seeded source.
func randomCities(rng *rand.Rand, n int) []tsp.City {
	cs := make([]tsp.City, n)
	var i int
	for i = 0; i < n; i++ {
		cs[i] = tsp.City{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}

	return cs
}

// rippledCircle places n points on a slightly perturbed circle (no ties).
func rippledCircle(n int) []tsp.City {
	cs := make([]tsp.City, n)
	var (
		i  int
		th float64
		r  float64
	)
	for i = 0; i < n; i++ {
		th = 2 * math.Pi * float64(i) / float64(n)
		r = 10 + 0.3*float64((i*5)%7)
		cs[i] = tsp.City{X: r * math.Cos(th), Y: r * math.Sin(th)}
	}

	return cs
}

// -----------------------------------------------------------------------------
// Independent references
// -----------------------------------------------------------------------------

// naiveOptimum enumerates every permutation of 1..n-1 with Heap's algorithm
// (a different order than the solver) and returns the minimal closed length.
func naiveOptimum(cities []tsp.City) float64 {
	n := len(cities)
	rest := make([]int, n-1)
	var i int
	for i = range rest {
		rest[i] = i + 1
	}

	best := math.Inf(1)
	eval := func() {
		var (
			sum  float64
			prev = 0
			k    int
		)
		for k = 0; k < len(rest); k++ {
			sum += math.Hypot(cities[prev].X-cities[rest[k]].X, cities[prev].Y-cities[rest[k]].Y)
			prev = rest[k]
		}
		sum += math.Hypot(cities[prev].X-cities[0].X, cities[prev].Y-cities[0].Y)
		if sum < best {
			best = sum
		}
	}

	// Heap's algorithm, iterative form.
	c := make([]int, len(rest))
	eval()
	i = 0
	for i < len(rest) {
		if c[i] < i {
			if i%2 == 0 {
				rest[0], rest[i] = rest[i], rest[0]
			} else {
				rest[c[i]], rest[i] = rest[i], rest[c[i]]
			}
			eval()
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}

	return best
}

// -----------------------------------------------------------------------------
// Assertions
// -----------------------------------------------------------------------------

// requireClosedTour asserts the Route invariant for n cities.
func requireClosedTour(t *testing.T, route tsp.Route, n int) {
	t.Helper()
	require.Len(t, route, n+1, "route %s", tsp.DebugString(route))
	require.Equal(t, route[0], route[n], "route must be closed")
	require.NoError(t, tsp.ValidateTour(route, n, route[0]))
}

// requireConsistentDistance asserts distance == Σ metric along route.
func requireConsistentDistance(t *testing.T, cities []tsp.City, sol tsp.Solution) {
	t.Helper()
	want, err := tsp.RouteDistance(cities, sol.Route)
	require.NoError(t, err)
	require.InDelta(t, want, sol.Distance, epsCost)
}
