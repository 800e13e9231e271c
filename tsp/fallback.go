// Package tsp - fallback execution policy.
//
// Execute runs a resolved Solver and turns every failure into an explicit
// Failure value instead of an error: an error return, a panic, or a route
// that breaks the closed-tour invariants all trigger the substitution of
// Greedy from city 0, reported as AlgorithmUsed == Fallback.
package tsp

import (
	"fmt"
	"math"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

const (
	// fallbackStart is the canonical start of the substituted greedy tour.
	fallbackStart = 0

	// distanceTolerance bounds |reported − recomputed| tour length, relative
	// to the length once it exceeds 1.
	distanceTolerance = 1e-6
)

// Execute runs s on dist under the fallback policy.
//
// The returned error is non-nil only if the substituted greedy run fails as
// well, which a validated table (n ≥ 2, finite entries) rules out.
//
// Complexity: that of s, plus O(n²) on fallback.
func Execute(s Solver, dist matrix.Matrix) (Outcome, error) {
	sol, meta, err := runGuarded(s, dist)
	if err == nil {
		err = checkSolution(sol, dist)
	}
	if err == nil {
		if meta == nil {
			meta = Metadata{}
		}

		return Outcome{Solution: sol, AlgorithmUsed: s.Algorithm(), Metadata: meta}, nil
	}

	failure := &Failure{Algorithm: s.Algorithm(), Err: err}
	sol, gerr := nearestNeighborTour(dist, fallbackStart)
	if gerr != nil {
		return Outcome{}, fmt.Errorf("tsp: fallback after %v: %w", failure, gerr)
	}

	return Outcome{
		Solution:      sol,
		AlgorithmUsed: Fallback,
		Metadata: Metadata{
			"start":            fallbackStart,
			"failed_algorithm": string(s.Algorithm()),
			"fallback_reason":  err.Error(),
		},
		Failure: failure,
	}, nil
}

// runGuarded invokes s, converting a panic into an error.
func runGuarded(s Solver, dist matrix.Matrix) (sol Solution, meta Metadata, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol, meta = Solution{}, nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return s.Solve(dist)
}

// checkSolution verifies the closed-tour invariant of a solver's answer and
// that its distance matches the route. Any start city is accepted; the
// sampled strategy starts anywhere.
func checkSolution(sol Solution, dist matrix.Matrix) error {
	if len(sol.Route) == 0 {
		return fmt.Errorf("%w: empty route", ErrInvalidTour)
	}
	if err := ValidateTour(sol.Route, dist.Rows(), sol.Route[0]); err != nil {
		return err
	}
	cost, err := TourCost(dist, sol.Route)
	if err != nil {
		return err
	}
	if math.Abs(cost-sol.Distance) > distanceTolerance*math.Max(1, math.Abs(cost)) {
		return fmt.Errorf("%w: reported distance %g, route length %g", ErrInvalidTour, sol.Distance, cost)
	}

	return nil
}
