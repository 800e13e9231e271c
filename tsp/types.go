package tsp

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// Sentinel errors. Match with errors.Is; they may be wrapped with context.
var (
	// ErrInvalidInput is returned before dispatch when fewer than two cities
	// are supplied, a coordinate is not finite, or a tuning knob is negative.
	ErrInvalidInput = errors.New("tsp: invalid input")

	// ErrUnsupportedAlgorithm is returned before dispatch for an unknown strategy name.
	ErrUnsupportedAlgorithm = errors.New("tsp: unsupported algorithm")

	// ErrInvalidOptions signals an inconsistent Options value (non-positive ceilings...).
	ErrInvalidOptions = errors.New("tsp: invalid options")

	// ErrSizeExceeded is raised by the exact solver when n exceeds its ceiling.
	// The selector prevents it; the fallback policy absorbs it otherwise.
	ErrSizeExceeded = errors.New("tsp: instance exceeds solver size ceiling")

	// ErrStartOutOfRange indicates a start index outside [0, n).
	ErrStartOutOfRange = errors.New("tsp: start vertex out of range")

	// ErrInvalidTour indicates a route violating the closed-tour invariants.
	ErrInvalidTour = errors.New("tsp: invalid tour")

	// ErrSolverFailure classifies every recoverable solver failure (see Failure).
	ErrSolverFailure = errors.New("tsp: solver failure")
)

// City is an immutable 2-D coordinate pair.
type City = matrix.Point

// Route is a closed tour of city indices: len == n+1, route[0] == route[n],
// and route[0..n-1] is a permutation of [0, n).
type Route []int

// Solution couples a route with its total Euclidean length.
// Distance equals the sum of consecutive edge lengths along Route.
type Solution struct {
	Route    Route
	Distance float64
}

// Algorithm names a solving strategy, either requested or actually used.
type Algorithm string

const (
	// Greedy is the nearest-neighbor constructor.
	Greedy Algorithm = "greedy"
	// Exact is the brute-force permutation solver.
	Exact Algorithm = "exact"
	// Sampled is the multi-start randomized nearest-neighbor search.
	Sampled Algorithm = "sampled"
	// AutoFallback requests Sampled with automatic downgrade on large inputs.
	AutoFallback Algorithm = "autoFallback"

	// Fallback is reported when the resolved solver failed and Greedy from
	// city 0 was substituted.
	Fallback Algorithm = "fallback"
	// GreedyDowngrade is reported when the selector replaced the requested
	// strategy with Greedy because the instance exceeded its ceiling.
	GreedyDowngrade Algorithm = "greedy_downgrade"
)

// Metadata carries free-form, solver-declared key/value pairs.
type Metadata map[string]any

// merge copies every entry of src into m (src wins) and returns m.
func (m Metadata) merge(src Metadata) Metadata {
	var (
		k string
		v any
	)
	for k, v = range src {
		m[k] = v
	}

	return m
}

// Request is the strategy request of one optimization call.
type Request struct {
	// Algorithm is the requested strategy; empty means Greedy.
	Algorithm Algorithm
	// Shots drives the Sampled trial count; 0 means DefaultShots.
	Shots int
	// MaxIterations is advisory metadata only; 0 means DefaultMaxIterations.
	MaxIterations int
	// Seed feeds the Sampled start selection; 0 selects the package default seed.
	Seed int64
}

// Request defaults applied when a field is left zero.
const (
	DefaultShots         = 1000
	DefaultMaxIterations = 50
)

// withDefaults returns a copy of r with zero fields replaced by defaults.
func (r Request) withDefaults() Request {
	if r.Algorithm == "" {
		r.Algorithm = Greedy
	}
	if r.Shots == 0 {
		r.Shots = DefaultShots
	}
	if r.MaxIterations == 0 {
		r.MaxIterations = DefaultMaxIterations
	}

	return r
}

// Failure is the typed, recoverable condition produced when a resolved solver
// errors, panics, or returns a route violating the tour invariants.
// errors.Is(f, ErrSolverFailure) is always true.
type Failure struct {
	Algorithm Algorithm
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("tsp: %s solver failed: %v", f.Algorithm, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Is reports ErrSolverFailure as a match in addition to the wrapped chain.
func (f *Failure) Is(target error) bool { return target == ErrSolverFailure }

// Outcome is the result of executing a resolved solver under the fallback policy.
type Outcome struct {
	Solution
	// AlgorithmUsed may differ from the requested strategy (downgrade/fallback).
	AlgorithmUsed Algorithm
	// Metadata holds the strategy's internal parameters.
	Metadata Metadata
	// Failure is non-nil when the fallback substitution happened.
	Failure *Failure
}

// Result is the packaged answer handed to the surrounding layer.
type Result struct {
	Route                Route     `json:"route"`
	Distance             float64   `json:"distance"`
	AlgorithmUsed        Algorithm `json:"algorithm_used"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
	Metadata             Metadata  `json:"metadata"`

	// Requested is the normalized requested strategy.
	Requested Algorithm `json:"-"`
	// Downgraded is true when the selector substituted Greedy.
	Downgraded bool `json:"-"`
	// Failure carries the recoverable condition when AlgorithmUsed == Fallback.
	Failure *Failure `json:"-"`
	// Elapsed is the wall-clock duration of the whole computation.
	Elapsed time.Duration `json:"-"`
}

// Options configures ceilings and sampling effort of the engine.
type Options struct {
	// ExactCeiling is the largest n for which Exact may run (reference: 8).
	ExactCeiling int
	// ResourceCeiling is the largest n for which Sampled/AutoFallback may run
	// (reference: 10, the simulated qubit budget).
	ResourceCeiling int
	// MaxTrials caps the number of Sampled restarts (reference: 50).
	MaxTrials int
	// ShotsPerTrial converts shots into trials: trials = shots / ShotsPerTrial.
	ShotsPerTrial int
	// Workers bounds parallel Sampled trials; ≤1 runs them sequentially.
	Workers int
}

// Reference ceilings and limits.
const (
	DefaultExactCeiling    = 8
	DefaultResourceCeiling = 10
	DefaultMaxTrials       = 50
	DefaultShotsPerTrial   = 100

	// MaxExactCeiling is the upper bound accepted for Options.ExactCeiling.
	MaxExactCeiling = 12
)

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		ExactCeiling:    DefaultExactCeiling,
		ResourceCeiling: DefaultResourceCeiling,
		MaxTrials:       DefaultMaxTrials,
		ShotsPerTrial:   DefaultShotsPerTrial,
		Workers:         runtime.GOMAXPROCS(0),
	}
}
