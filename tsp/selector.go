// Package tsp - strategy selection.
//
// Select maps a requested strategy and an instance size to an executable
// Solver, downgrading to Greedy when the instance exceeds the strategy's
// ceiling:
//
//	requested            condition              resolved
//	exact                n ≤ ExactCeiling       ExactSolver
//	exact                n > ExactCeiling       GreedySolver (downgraded)
//	sampled/autoFallback n ≤ ResourceCeiling    SampledSolver
//	sampled/autoFallback n > ResourceCeiling    GreedySolver (downgraded)
//	greedy               always                 GreedySolver
//	any                  n < 2                  ErrInvalidInput, nothing resolved
package tsp

import (
	"fmt"
	"strings"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// Solver is an executable strategy operating on a prepared distance table.
type Solver interface {
	// Algorithm names the strategy for reporting.
	Algorithm() Algorithm
	// Solve builds a closed tour over the n cities of dist and returns the
	// solver-declared metadata describing its internal parameters.
	Solve(dist matrix.Matrix) (Solution, Metadata, error)
}

// GreedySolver runs NearestNeighbor from Start.
type GreedySolver struct {
	Start int
}

// Algorithm implements Solver.
func (GreedySolver) Algorithm() Algorithm { return Greedy }

// Solve implements Solver.
func (s GreedySolver) Solve(dist matrix.Matrix) (Solution, Metadata, error) {
	sol, err := nearestNeighborTour(dist, s.Start)
	if err != nil {
		return Solution{}, nil, err
	}

	return sol, Metadata{"start": s.Start}, nil
}

// ExactSolver runs BruteForce bounded by Ceiling.
type ExactSolver struct {
	Ceiling int
}

// Algorithm implements Solver.
func (ExactSolver) Algorithm() Algorithm { return Exact }

// Solve implements Solver.
func (s ExactSolver) Solve(dist matrix.Matrix) (Solution, Metadata, error) {
	sol, evaluated, err := bruteForceTour(dist, s.Ceiling)
	if err != nil {
		return Solution{}, nil, err
	}

	return sol, Metadata{
		"ceiling":         s.Ceiling,
		"anchor":          0,
		"tours_evaluated": evaluated,
	}, nil
}

// SampledSolver runs SampleNearestNeighbor.
type SampledSolver struct {
	SampleConfig
}

// Algorithm implements Solver.
func (SampledSolver) Algorithm() Algorithm { return Sampled }

// Solve implements Solver.
func (s SampledSolver) Solve(dist matrix.Matrix) (Solution, Metadata, error) {
	sol, rep, err := sampleTours(dist, s.SampleConfig)
	if err != nil {
		return Solution{}, nil, err
	}

	return sol, Metadata{
		"trials":         s.Trials,
		"trials_run":     len(rep.Starts),
		"seed":           s.Seed,
		"sampled_starts": rep.Starts,
		"best_start":     rep.Starts[rep.BestTrial],
	}, nil
}

// algorithmAliases maps accepted request names onto strategies. Keys are
// lower-case; lookups are case-insensitive.
var algorithmAliases = map[string]Algorithm{
	"greedy":             Greedy,
	"nearest_neighbor":   Greedy,
	"classical_fallback": Greedy,
	"exact":              Exact,
	"brute_force":        Exact,
	"sampled":            Sampled,
	"qaoa":               Sampled,
	"vqe":                Sampled,
	"autofallback":       AutoFallback,
	"auto_fallback":      AutoFallback,
}

// ParseAlgorithm normalizes a requested strategy name. The empty name means
// Greedy.
//
// Errors: ErrUnsupportedAlgorithm for unknown names.
func ParseAlgorithm(name string) (Algorithm, error) {
	var key = strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Greedy, nil
	}
	if a, ok := algorithmAliases[key]; ok {
		return a, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Select resolves the solver to invoke for req on an instance of n cities.
// req must come from NormalizeRequest; Select does not parse names or apply
// defaults. The boolean reports a downgrade to Greedy.
//
// Errors: ErrInvalidInput (n < 2), ErrUnsupportedAlgorithm (req.Algorithm is
// not a canonical strategy).
//
// Complexity: O(1).
func Select(req Request, n int, opts Options) (Solver, bool, error) {
	if n < 2 {
		return nil, false, fmt.Errorf("%w: at least 2 cities are required, got %d", ErrInvalidInput, n)
	}

	switch req.Algorithm {
	case Greedy:
		return GreedySolver{Start: 0}, false, nil

	case Exact:
		if n > opts.ExactCeiling {
			return GreedySolver{Start: 0}, true, nil
		}

		return ExactSolver{Ceiling: opts.ExactCeiling}, false, nil

	case Sampled, AutoFallback:
		if n > opts.ResourceCeiling {
			return GreedySolver{Start: 0}, true, nil
		}

		return SampledSolver{SampleConfig{
			Trials:  Trials(req.Shots, opts),
			Seed:    req.Seed,
			Workers: opts.Workers,
		}}, false, nil

	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, req.Algorithm)
	}
}
