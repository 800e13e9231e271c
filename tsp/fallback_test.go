package tsp_test

import (
	"errors"
	"testing"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
	"github.com/stretchr/testify/require"
)

// stubSolver is a configurable Solver used to inject failures.
type stubSolver struct {
	algo  tsp.Algorithm
	solve func(dist matrix.Matrix) (tsp.Solution, tsp.Metadata, error)
}

func (s stubSolver) Algorithm() tsp.Algorithm { return s.algo }

func (s stubSolver) Solve(dist matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
	return s.solve(dist)
}

var errBackend = errors.New("backend unavailable")

func failingSolvers() map[string]stubSolver {
	return map[string]stubSolver{
		"error": {tsp.Sampled, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
			return tsp.Solution{}, nil, errBackend
		}},
		"panic": {tsp.Exact, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
			panic("index out of range")
		}},
		"short route": {tsp.Sampled, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
			return tsp.Solution{Route: tsp.Route{0, 1, 0}, Distance: 2}, nil, nil
		}},
		"duplicate city": {tsp.Sampled, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
			return tsp.Solution{Route: tsp.Route{0, 1, 1, 2, 0}, Distance: 3}, nil, nil
		}},
		"empty route": {tsp.Exact, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
			return tsp.Solution{}, nil, nil
		}},
		"wrong distance": {tsp.Exact, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
			return tsp.Solution{Route: tsp.Route{0, 1, 2, 3, 0}, Distance: 1}, nil, nil
		}},
	}
}

// TestExecute_FallbackOnFailure substitutes greedy from city 0 for every
// failure kind and reports it as fallback.
func TestExecute_FallbackOnFailure(t *testing.T) {
	dist, err := matrix.NewEuclidean(unitSquare())
	require.NoError(t, err)

	for name, s := range failingSolvers() {
		t.Run(name, func(t *testing.T) {
			out, err := tsp.Execute(s, dist)
			require.NoError(t, err)
			require.Equal(t, tsp.Fallback, out.AlgorithmUsed)
			require.Equal(t, tsp.Route{0, 1, 2, 3, 0}, out.Route)
			require.Equal(t, 4.0, out.Distance)

			require.NotNil(t, out.Failure)
			require.ErrorIs(t, out.Failure, tsp.ErrSolverFailure)
			require.Equal(t, s.algo, out.Failure.Algorithm)
			require.Equal(t, string(s.algo), out.Metadata["failed_algorithm"])
			require.NotEmpty(t, out.Metadata["fallback_reason"])
		})
	}
}

// TestExecute_FailureUnwraps keeps the original cause reachable.
func TestExecute_FailureUnwraps(t *testing.T) {
	dist, err := matrix.NewEuclidean(unitSquare())
	require.NoError(t, err)

	out, err := tsp.Execute(failingSolvers()["error"], dist)
	require.NoError(t, err)
	require.ErrorIs(t, out.Failure, errBackend)

	out, err = tsp.Execute(failingSolvers()["duplicate city"], dist)
	require.NoError(t, err)
	require.ErrorIs(t, out.Failure, tsp.ErrInvalidTour)
}

// TestExecute_Success passes a valid answer through with its metadata.
func TestExecute_Success(t *testing.T) {
	dist, err := matrix.NewEuclidean(unitSquare())
	require.NoError(t, err)

	out, err := tsp.Execute(tsp.GreedySolver{Start: 3}, dist)
	require.NoError(t, err)
	require.Equal(t, tsp.Greedy, out.AlgorithmUsed)
	require.Nil(t, out.Failure)
	require.Equal(t, 3, out.Route[0])
	require.Equal(t, 3, out.Metadata["start"])

	nilMeta := stubSolver{tsp.Sampled, func(matrix.Matrix) (tsp.Solution, tsp.Metadata, error) {
		return tsp.Solution{Route: tsp.Route{1, 2, 3, 0, 1}, Distance: 4}, nil, nil
	}}
	out, err = tsp.Execute(nilMeta, dist)
	require.NoError(t, err)
	require.Equal(t, tsp.Sampled, out.AlgorithmUsed)
	require.NotNil(t, out.Metadata)
}

// TestSolveWith_InjectedFailure reports fallback through the full pipeline.
func TestSolveWith_InjectedFailure(t *testing.T) {
	override := func(tsp.Solver) tsp.Solver { return failingSolvers()["panic"] }
	res, err := tsp.SolveWith(crossFive(), tsp.Request{Algorithm: tsp.Exact}, tsp.DefaultOptions(), override)
	require.NoError(t, err)
	require.Equal(t, tsp.Fallback, res.AlgorithmUsed)
	require.False(t, res.Downgraded)
	require.NotNil(t, res.Failure)
	requireClosedTour(t, res.Route, 5)
	require.Equal(t, 0, res.Route[0])
	require.Equal(t, "exact", res.Metadata["failed_algorithm"])
}

// TestPackage_RouteIsIndependent keeps the packaged route from sharing the
// solver's backing array.
func TestPackage_RouteIsIndependent(t *testing.T) {
	out := tsp.Outcome{
		Solution:      tsp.Solution{Route: tsp.Route{0, 2, 1, 0}, Distance: 3},
		AlgorithmUsed: tsp.Exact,
	}
	res := tsp.Package(out, tsp.Request{Algorithm: tsp.Exact}, false, 0)
	require.Equal(t, out.Route, res.Route)

	out.Route[1] = 7
	require.Equal(t, tsp.Route{0, 2, 1, 0}, res.Route)
	require.Equal(t, 3, res.Metadata["cities_count"])
}
