// Package routeopt is a travelling-salesman route optimizer for planar
// cities.
//
// Three strategies build closed tours over a Euclidean distance matrix:
//
//	greedy   nearest-neighbour construction from city 0
//	exact    exhaustive search, bounded by a size ceiling
//	sampled  seeded multi-start nearest neighbour, trials run in parallel
//
// A selector resolves the requested strategy, downgrading instances above
// the exact or resource ceiling to greedy. A fallback policy substitutes a
// greedy tour when a solver errors, panics or returns an invalid route.
//
// Layout:
//
//	matrix/              dense distance matrices and Euclidean construction
//	tsp/                 strategies, selector, fallback policy, packaging
//	internal/config      environment configuration (.env aware)
//	internal/logging     zap logger construction
//	internal/metrics     Prometheus collectors
//	internal/quantum     simulated device metadata for sampled results
//	internal/experiment  experiment log and result stores (memory, PostgreSQL)
//	internal/service     request orchestration
//	internal/api         HTTP handlers and router
//	cmd/routeopt         serve, solve and compare commands
package routeopt
