// Package tsp - validation utilities shared by the dispatcher and solvers.
//
// This file contains small helpers that:
//  1. Validate Options (ceilings, trial budget).
//  2. Validate city sets (size, finiteness) and build the distance table.
//  3. Validate a Request (known algorithm, non-negative knobs).
//
// Design principles:
//   - Deterministic, side-effect free functions.
//   - No logging, no panics on user input - only sentinel errors from types.go,
//     wrapped with a short context where it helps the caller.
package tsp

import (
	"errors"
	"fmt"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// validateAll verifies Options + Request + cities and returns the distance
// table together with the normalized request.
//
// Contract:
//   - len(cities) ≥ 2, every coordinate finite.
//   - req.Algorithm is known (aliases accepted), Shots/MaxIterations ≥ 0.
//
// Complexity: O(n²) (distance table).
func validateAll(cities []City, req Request, opts Options) (*matrix.Dense, Request, error) {
	var err error
	if err = validateOptions(opts); err != nil {
		return nil, Request{}, err
	}
	if req, err = NormalizeRequest(req); err != nil {
		return nil, Request{}, err
	}
	if len(cities) < 2 {
		return nil, Request{}, fmt.Errorf("%w: at least 2 cities are required, got %d", ErrInvalidInput, len(cities))
	}

	dist, err := distanceTable(cities)
	if err != nil {
		return nil, Request{}, err
	}

	return dist, req, nil
}

// validateOptions checks internal consistency of Options.
//
// Complexity: O(1).
func validateOptions(opts Options) error {
	if opts.ExactCeiling < 1 || opts.ExactCeiling > MaxExactCeiling {
		return fmt.Errorf("%w: exact ceiling %d not in [1,%d]", ErrInvalidOptions, opts.ExactCeiling, MaxExactCeiling)
	}
	if opts.ResourceCeiling < 1 {
		return fmt.Errorf("%w: resource ceiling must be positive", ErrInvalidOptions)
	}
	if opts.MaxTrials < 1 {
		return fmt.Errorf("%w: max trials must be positive", ErrInvalidOptions)
	}
	if opts.ShotsPerTrial < 1 {
		return fmt.Errorf("%w: shots per trial must be positive", ErrInvalidOptions)
	}

	return nil
}

// NormalizeRequest rejects negative tuning knobs, applies defaults and
// resolves the algorithm name to its canonical strategy. It is the only place
// request names are parsed; Select expects its output. Normalizing an
// already normalized request returns it unchanged.
//
// Errors: ErrInvalidInput, ErrUnsupportedAlgorithm.
//
// Complexity: O(1).
func NormalizeRequest(req Request) (Request, error) {
	if req.Shots < 0 {
		return Request{}, fmt.Errorf("%w: shots must be positive", ErrInvalidInput)
	}
	if req.MaxIterations < 0 {
		return Request{}, fmt.Errorf("%w: max_iterations must be positive", ErrInvalidInput)
	}

	req = req.withDefaults()
	algo, err := ParseAlgorithm(string(req.Algorithm))
	if err != nil {
		return Request{}, err
	}
	req.Algorithm = algo

	return req, nil
}

// distanceTable materializes the Euclidean metric over cities, mapping the
// matrix non-finite sentinel onto ErrInvalidInput.
//
// Complexity: O(n²) time and space.
func distanceTable(cities []City) (*matrix.Dense, error) {
	dist, err := matrix.NewEuclidean(cities)
	if err != nil {
		if errors.Is(err, matrix.ErrNaNInf) {
			return nil, fmt.Errorf("%w: coordinates must be finite", ErrInvalidInput)
		}

		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return dist, nil
}

// validateStartVertex verifies that start∈[0..n-1].
//
// Complexity: O(1).
func validateStartVertex(n int, start int) error {
	if start < 0 || start >= n {
		return ErrStartOutOfRange
	}

	return nil
}
