package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/lianstemp/aws-serverless-comparison/internal/config"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

var compareFlags struct {
	sizes    []int
	seed     int64
	shots    int
	markdown bool
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every strategy over generated instances and tabulate the results",
	Long: `Generates one random instance per size (uniform in a 100x100 square,
seeded) and solves it with greedy, exact, sampled and autoFallback. The gap
column is the distance above the best tour found for that size.`,
	RunE: runCompare,
}

// compareAlgorithms is the column order of the comparison.
var compareAlgorithms = []tsp.Algorithm{tsp.Greedy, tsp.Exact, tsp.Sampled, tsp.AutoFallback}

func init() {
	f := compareCmd.Flags()
	f.IntSliceVar(&compareFlags.sizes, "sizes", []int{4, 6, 8, 10}, "Instance sizes")
	f.Int64Var(&compareFlags.seed, "seed", 1, "Seed for instance generation and sampling")
	f.IntVar(&compareFlags.shots, "shots", tsp.DefaultShots, "Sampling shots")
	f.BoolVar(&compareFlags.markdown, "markdown", false, "Render a Markdown table")
}

// compareRow is one (size, strategy) measurement.
type compareRow struct {
	n         int
	requested tsp.Algorithm
	res       tsp.Result
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	rows, err := compare(compareFlags.sizes, compareFlags.seed, compareFlags.shots, cfg.Solver.Options())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"n", "requested", "algorithm_used", "distance", "time", "gap"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	best := bestBySize(rows)
	prev := -1
	for _, r := range rows {
		if prev != -1 && r.n != prev {
			t.AppendSeparator()
		}
		prev = r.n
		t.AppendRow(table.Row{
			r.n,
			string(r.requested),
			string(r.res.AlgorithmUsed),
			fmt.Sprintf("%.4f", r.res.Distance),
			r.res.Elapsed.String(),
			fmt.Sprintf("%.2f%%", gap(r.res.Distance, best[r.n])),
		})
	}

	if compareFlags.markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}

// compare solves one instance per size with every strategy.
func compare(sizes []int, seed int64, shots int, opts tsp.Options) ([]compareRow, error) {
	rows := make([]compareRow, 0, len(sizes)*len(compareAlgorithms))
	for _, n := range sizes {
		cities := randomInstance(n, seed+int64(n))
		for _, algo := range compareAlgorithms {
			res, err := tsp.Solve(cities, tsp.Request{Algorithm: algo, Shots: shots, Seed: seed}, opts)
			if err != nil {
				return nil, fmt.Errorf("compare n=%d %s: %w", n, algo, err)
			}
			rows = append(rows, compareRow{n: n, requested: algo, res: res})
		}
	}
	return rows, nil
}

// randomInstance draws n points uniformly in [0,100)².
func randomInstance(n int, seed int64) []tsp.City {
	rng := rand.New(rand.NewSource(seed))
	cs := make([]tsp.City, n)
	for i := range cs {
		cs[i] = tsp.City{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	return cs
}

func bestBySize(rows []compareRow) map[int]float64 {
	best := make(map[int]float64)
	for _, r := range rows {
		if b, ok := best[r.n]; !ok || r.res.Distance < b {
			best[r.n] = r.res.Distance
		}
	}
	return best
}

// gap is the percentage of d above best.
func gap(d, best float64) float64 {
	if best <= 0 || math.IsInf(best, 0) {
		return 0
	}
	return (d - best) / best * 100
}
