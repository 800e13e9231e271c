package tsp_test

import (
	"math/rand"
	"testing"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
	"github.com/stretchr/testify/require"
)

// TestNearestNeighbor_UnitSquare walks the square perimeter from city 0.
// City 1 and city 3 are both at distance 1; the lower index wins.
func TestNearestNeighbor_UnitSquare(t *testing.T) {
	sol, err := tsp.NearestNeighbor(unitSquare(), 0)
	require.NoError(t, err)
	require.Equal(t, tsp.Route{0, 1, 2, 3, 0}, sol.Route)
	require.Equal(t, 4.0, sol.Distance)
}

// TestNearestNeighbor_OtherStart anchors the tour at the requested city.
func TestNearestNeighbor_OtherStart(t *testing.T) {
	sol, err := tsp.NearestNeighbor(unitSquare(), 2)
	require.NoError(t, err)
	require.Equal(t, tsp.Route{2, 1, 0, 3, 2}, sol.Route)
	require.Equal(t, 4.0, sol.Distance)
}

// TestNearestNeighbor_Degenerate covers n ∈ {0,1} and bad starts.
func TestNearestNeighbor_Degenerate(t *testing.T) {
	sol, err := tsp.NearestNeighbor(nil, 0)
	require.NoError(t, err)
	require.Empty(t, sol.Route)
	require.Zero(t, sol.Distance)

	sol, err = tsp.NearestNeighbor([]tsp.City{{X: 3, Y: 4}}, 0)
	require.NoError(t, err)
	require.Equal(t, tsp.Route{0}, sol.Route)
	require.Zero(t, sol.Distance)

	_, err = tsp.NearestNeighbor(unitSquare(), 4)
	require.ErrorIs(t, err, tsp.ErrStartOutOfRange)
	_, err = tsp.NearestNeighbor(unitSquare(), -1)
	require.ErrorIs(t, err, tsp.ErrStartOutOfRange)
}

// TestNearestNeighbor_Collinear exercises duplicate-distance scans on a line.
func TestNearestNeighbor_Collinear(t *testing.T) {
	cs := []tsp.City{{X: 0}, {X: 3}, {X: 1}, {X: 2}}
	sol, err := tsp.NearestNeighbor(cs, 0)
	require.NoError(t, err)
	require.Equal(t, tsp.Route{0, 2, 3, 1, 0}, sol.Route)
	require.Equal(t, 6.0, sol.Distance)
}

// TestNearestNeighbor_DuplicatePoints keeps zero-length edges valid.
func TestNearestNeighbor_DuplicatePoints(t *testing.T) {
	cs := []tsp.City{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}
	sol, err := tsp.NearestNeighbor(cs, 0)
	require.NoError(t, err)
	require.Equal(t, tsp.Route{0, 1, 2, 0}, sol.Route)
	require.Zero(t, sol.Distance)
}

// TestNearestNeighbor_Properties checks route validity and distance
// consistency across random instances.
func TestNearestNeighbor_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(seedDet))
	var run int
	for run = 0; run < propertyRuns; run++ {
		n := 2 + rng.Intn(30)
		cs := randomCities(rng, n)
		start := rng.Intn(n)

		sol, err := tsp.NearestNeighbor(cs, start)
		require.NoError(t, err)
		requireClosedTour(t, sol.Route, n)
		require.Equal(t, start, sol.Route[0])
		requireConsistentDistance(t, cs, sol)
	}
}
