// Package tsp - unified entry point.
//
// Solve is the canonical way to run the engine:
//
//  1. validateAll: options, request (NormalizeRequest), cities (n ≥ 2,
//     finite coordinates); builds the distance table once.
//  2. Select: resolve the solver, possibly downgrading to Greedy.
//  3. Execute: run it under the fallback policy.
//  4. Package: attach timing and metadata.
//
// Design principles:
//   - Deterministic for a fixed Request.Seed; no time-based randomness.
//   - Strict sentinels: only pre-dispatch validation errors are returned.
//   - Stateless: nothing is shared between calls, so concurrent Solve calls
//     need no coordination.
package tsp

import (
	"fmt"
	"time"
)

// Solve optimizes a closed tour over cities according to req.
//
// Errors (pre-dispatch only): ErrInvalidInput, ErrUnsupportedAlgorithm,
// ErrInvalidOptions. Solver failures never surface here; they are reported
// through Result.AlgorithmUsed == Fallback and Result.Failure.
//
// Complexity: O(n²) validation + the resolved strategy's cost.
func Solve(cities []City, req Request, opts Options) (Result, error) {
	return SolveWith(cities, req, opts, nil)
}

// SolveWith is Solve with an optional override of the resolved solver.
// When override is non-nil it receives the selector's choice and returns the
// solver to execute instead; tests use it to inject failing strategies.
func SolveWith(cities []City, req Request, opts Options, override func(Solver) Solver) (Result, error) {
	var began = time.Now()

	dist, req, err := validateAll(cities, req, opts)
	if err != nil {
		return Result{}, err
	}

	solver, downgraded, err := Select(req, len(cities), opts)
	if err != nil {
		return Result{}, err
	}
	if override != nil {
		solver = override(solver)
	}

	out, err := Execute(solver, dist)
	if err != nil {
		return Result{}, fmt.Errorf("tsp: solve: %w", err)
	}
	if downgraded && out.Failure == nil {
		out.AlgorithmUsed = GreedyDowngrade
	}

	return Package(out, req, downgraded, time.Since(began)), nil
}
