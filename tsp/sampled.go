// Package tsp - sampled (quantum-inspired) multi-start construction.
//
// SampleNearestNeighbor stands in for probabilistic sampling: it runs the
// nearest-neighbor constructor from several distinct, randomly chosen start
// cities and keeps the shortest tour.
//
// Reproducibility:
//   - Starts are a prefix of a permutation of [0, n) drawn from Seed before
//     any trial runs (seed==0 ⇒ package default seed).
//   - Trials may run in parallel; each writes only its own slot and the
//     minimum is reduced afterwards in trial order, so the returned tour is
//     identical for any worker count. Ties keep the earliest trial.
//
// Complexity: O(trials·n²) time, O(trials·n) space.
package tsp

import (
	"golang.org/x/sync/errgroup"

	"github.com/lianstemp/aws-serverless-comparison/matrix"
)

// SampleConfig parameterizes one sampled run.
type SampleConfig struct {
	// Trials is the number of restarts requested (≥1); at most n distinct
	// starts exist, so min(Trials, n) restarts are run.
	Trials int
	// Seed selects the start cities; 0 ⇒ default seed.
	Seed int64
	// Workers bounds concurrently running trials; ≤1 runs them in order.
	Workers int
}

// SampleReport describes what a sampled run did.
type SampleReport struct {
	// Starts lists the start city of every trial, in trial order.
	Starts []int
	// Distances lists the tour length of every trial, aligned with Starts.
	Distances []float64
	// BestTrial is the index (into Starts) of the returned tour.
	BestTrial int
}

// Trials converts a shots budget into a restart count:
// clamp(shots/ShotsPerTrial, 1, MaxTrials).
//
// Complexity: O(1).
func Trials(shots int, opts Options) int {
	var t int
	if opts.ShotsPerTrial > 0 {
		t = shots / opts.ShotsPerTrial
	}
	if t > opts.MaxTrials {
		t = opts.MaxTrials
	}
	if t < 1 {
		t = 1
	}

	return t
}

// SampleNearestNeighbor returns the best nearest-neighbor tour over the
// sampled starts. The result is never longer than NearestNeighbor from any
// of the reported starts.
//
// Errors: ErrInvalidInput (trials < 1, non-finite coordinates, n < 2).
func SampleNearestNeighbor(cities []City, cfg SampleConfig) (Solution, SampleReport, error) {
	if len(cities) < 2 {
		return Solution{}, SampleReport{}, ErrInvalidInput
	}
	dist, err := distanceTable(cities)
	if err != nil {
		return Solution{}, SampleReport{}, err
	}

	return sampleTours(dist, cfg)
}

// sampleTours runs the trials on a prepared table.
func sampleTours(dist matrix.Matrix, cfg SampleConfig) (Solution, SampleReport, error) {
	starts, err := sampleStarts(dist.Rows(), cfg.Trials, cfg.Seed)
	if err != nil {
		return Solution{}, SampleReport{}, err
	}

	results := make([]Solution, len(starts))

	var g errgroup.Group
	if cfg.Workers > 1 {
		g.SetLimit(cfg.Workers)
	} else {
		g.SetLimit(1)
	}
	var i int
	for i = range starts {
		i := i
		g.Go(func() error {
			sol, terr := nearestNeighborTour(dist, starts[i])
			if terr != nil {
				return terr
			}
			results[i] = sol

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return Solution{}, SampleReport{}, err
	}

	// Reduce in trial order; strict comparison keeps the earliest trial on ties.
	report := SampleReport{
		Starts:    starts,
		Distances: make([]float64, len(results)),
	}
	for i = range results {
		report.Distances[i] = results[i].Distance
		if results[i].Distance < results[report.BestTrial].Distance {
			report.BestTrial = i
		}
	}

	return results[report.BestTrial], report, nil
}
