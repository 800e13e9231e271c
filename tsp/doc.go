// Package tsp provides a route-optimization engine for the Euclidean
// Travelling Salesman Problem on 2-D points.
//
// Strategies (all return a closed tour of length n+1 with tour[0]==tour[n]):
//
//   - Greedy: nearest-neighbor construction from a start city.
//   - Complexity: O(n²)
//   - Ties broken by the lowest city index.
//
//   - Exact: brute-force permutation search anchored at city 0.
//   - Complexity: O((n−1)!) worst case, pruned on partial cost.
//   - Valid only for n ≤ Options.ExactCeiling (reference: 8).
//
//   - Sampled: Greedy repeated from distinct random starts; keeps the best.
//   - Complexity: O(trials·n²), trials = clamp(shots/ShotsPerTrial, 1, MaxTrials).
//   - Reproducible: starts are drawn from an explicit seed.
//
//   - AutoFallback: resolved like Sampled by the selector.
//
// Control flow of Solve:
//
//	validate → Select (may downgrade to Greedy) → Execute (may fall back to
//	Greedy from city 0) → Package (timing + metadata).
//
// Only pre-dispatch validation errors (ErrInvalidInput, ErrUnsupportedAlgorithm,
// ErrInvalidOptions) are returned by Solve; any failure inside a solver is
// absorbed by the fallback policy and reported through Result.AlgorithmUsed
// ("fallback") and Result.Failure.
//
// The package performs no I/O and no logging; every call is synchronous and
// shares no mutable state with other calls.
package tsp
