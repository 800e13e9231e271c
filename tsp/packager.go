// Package tsp - solution packaging.
//
// Package is pure aggregation: it combines an Outcome with the wall-clock
// duration and the request's tuning knobs into the Result handed to the
// surrounding layer. It makes no algorithmic decisions.
package tsp

import "time"

// Package builds the Result for out.
//
// Metadata keys added on top of the solver-declared ones:
//   - requested_algorithm, shots, max_iterations, cities_count;
//   - downgraded (bool), and downgraded_from when true.
//
// Complexity: O(len(metadata)).
func Package(out Outcome, req Request, downgraded bool, elapsed time.Duration) Result {
	meta := Metadata{}
	meta.merge(out.Metadata)
	meta["requested_algorithm"] = string(req.Algorithm)
	meta["shots"] = req.Shots
	meta["max_iterations"] = req.MaxIterations
	meta["cities_count"] = citiesCount(out.Route)
	meta["downgraded"] = downgraded
	if downgraded {
		meta["downgraded_from"] = string(req.Algorithm)
	}

	return Result{
		Route:                Route(CopyTour(out.Route)),
		Distance:             out.Distance,
		AlgorithmUsed:        out.AlgorithmUsed,
		ExecutionTimeSeconds: elapsed.Seconds(),
		Metadata:             meta,
		Requested:            req.Algorithm,
		Downgraded:           downgraded,
		Failure:              out.Failure,
		Elapsed:              elapsed,
	}
}

// citiesCount derives n from a closed route (len n+1).
func citiesCount(r Route) int {
	if len(r) < 2 {
		return len(r)
	}

	return len(r) - 1
}
