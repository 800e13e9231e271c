package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lianstemp/aws-serverless-comparison/internal/config"
	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

var solveFlags struct {
	file          string
	algorithm     string
	shots         int
	maxIterations int
	seed          int64
	asJSON        bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one instance read from a YAML or JSON file",
	Long: `Reads cities (and optionally algorithm, shots, max_iterations, seed) from
a file and prints the tour. Flags override the values in the file.

Example file:

  cities: [[0, 0], [1, 0], [1, 1], [0, 1]]
  algorithm: exact`,
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVarP(&solveFlags.file, "file", "f", "", "Instance file (YAML or JSON, required)")
	f.StringVar(&solveFlags.algorithm, "algorithm", "", "Strategy: greedy, exact, sampled, autoFallback or an alias")
	f.IntVar(&solveFlags.shots, "shots", 0, "Sampling shots (default 1000)")
	f.IntVar(&solveFlags.maxIterations, "max-iterations", 0, "Advisory iteration budget (default 50)")
	f.Int64Var(&solveFlags.seed, "seed", 0, "Seed for the sampled strategy")
	f.BoolVar(&solveFlags.asJSON, "json", false, "Print the result as JSON")

	_ = solveCmd.MarkFlagRequired("file")
}

// solveOutput is the JSON shape printed by --json.
type solveOutput struct {
	Route                tsp.Route    `json:"route"`
	Distance             float64      `json:"distance"`
	AlgorithmUsed        string       `json:"algorithm_used"`
	ExecutionTimeSeconds float64      `json:"execution_time_seconds"`
	Metadata             tsp.Metadata `json:"metadata"`
}

func runSolve(cmd *cobra.Command, _ []string) error {
	inst, err := loadInstance(solveFlags.file)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		inst.Algorithm = solveFlags.algorithm
	}
	if flags.Changed("shots") {
		inst.Shots = solveFlags.shots
	}
	if flags.Changed("max-iterations") {
		inst.MaxIterations = solveFlags.maxIterations
	}
	if flags.Changed("seed") {
		inst.Seed = solveFlags.seed
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	res, err := tsp.Solve(inst.cities(), tsp.Request{
		Algorithm:     tsp.Algorithm(inst.Algorithm),
		Shots:         inst.Shots,
		MaxIterations: inst.MaxIterations,
		Seed:          inst.Seed,
	}, cfg.Solver.Options())
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	out := cmd.OutOrStdout()
	if solveFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(solveOutput{
			Route:                res.Route,
			Distance:             res.Distance,
			AlgorithmUsed:        string(res.AlgorithmUsed),
			ExecutionTimeSeconds: res.ExecutionTimeSeconds,
			Metadata:             res.Metadata,
		})
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"requested", string(res.Requested)},
		{"algorithm_used", string(res.AlgorithmUsed)},
		{"route", tsp.DebugString(res.Route)},
		{"distance", fmt.Sprintf("%.6f", res.Distance)},
		{"time", res.Elapsed.String()},
	})
	if res.Failure != nil {
		t.AppendRow(table.Row{"fallback_reason", res.Failure.Error()})
	}
	t.AppendSeparator()
	for _, k := range sortedKeys(res.Metadata) {
		t.AppendRow(table.Row{k, fmt.Sprint(res.Metadata[k])})
	}
	t.Render()
	return nil
}

func sortedKeys(m tsp.Metadata) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
