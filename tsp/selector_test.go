package tsp_test

import (
	"testing"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
	"github.com/stretchr/testify/require"
)

// TestSelect_Policy walks the selection table on normalized requests.
func TestSelect_Policy(t *testing.T) {
	opts := tsp.DefaultOptions()
	cases := []struct {
		name       string
		algo       tsp.Algorithm
		n          int
		want       tsp.Algorithm
		downgraded bool
	}{
		{"greedy small", tsp.Greedy, 3, tsp.Greedy, false},
		{"greedy large", tsp.Greedy, 500, tsp.Greedy, false},
		{"empty means greedy", "", 5, tsp.Greedy, false},
		{"exact at ceiling", tsp.Exact, 8, tsp.Exact, false},
		{"exact above ceiling", tsp.Exact, 9, tsp.Greedy, true},
		{"sampled at ceiling", tsp.Sampled, 10, tsp.Sampled, false},
		{"sampled above ceiling", tsp.Sampled, 11, tsp.Greedy, true},
		{"auto small", tsp.AutoFallback, 4, tsp.Sampled, false},
		{"auto above ceiling", tsp.AutoFallback, 15, tsp.Greedy, true},
		{"alias qaoa", "qaoa", 6, tsp.Sampled, false},
		{"alias brute_force", "brute_force", 12, tsp.Greedy, true},
		{"alias nearest_neighbor", "nearest_neighbor", 2, tsp.Greedy, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := tsp.NormalizeRequest(tsp.Request{Algorithm: tc.algo})
			require.NoError(t, err)
			s, down, err := tsp.Select(req, tc.n, opts)
			require.NoError(t, err)
			require.Equal(t, tc.want, s.Algorithm())
			require.Equal(t, tc.downgraded, down)
		})
	}
}

// TestSelect_SampledConfig derives trials from shots and carries the seed.
func TestSelect_SampledConfig(t *testing.T) {
	opts := tsp.DefaultOptions()
	opts.Workers = 3
	s, _, err := tsp.Select(tsp.Request{Algorithm: tsp.Sampled, Shots: 700, Seed: 11}, 6, opts)
	require.NoError(t, err)
	require.Equal(t, tsp.SampledSolver{SampleConfig: tsp.SampleConfig{Trials: 7, Seed: 11, Workers: 3}}, s)

	s, _, err = tsp.Select(tsp.Request{Algorithm: tsp.Exact}, 6, opts)
	require.NoError(t, err)
	require.Equal(t, tsp.ExactSolver{Ceiling: tsp.DefaultExactCeiling}, s)
}

// TestSelect_Rejects covers n < 2 and unknown names.
func TestSelect_Rejects(t *testing.T) {
	opts := tsp.DefaultOptions()

	_, _, err := tsp.Select(tsp.Request{Algorithm: tsp.Greedy}, 1, opts)
	require.ErrorIs(t, err, tsp.ErrInvalidInput)
	_, _, err = tsp.Select(tsp.Request{Algorithm: tsp.Exact}, 0, opts)
	require.ErrorIs(t, err, tsp.ErrInvalidInput)

	_, _, err = tsp.Select(tsp.Request{Algorithm: "simulated_annealing"}, 5, opts)
	require.ErrorIs(t, err, tsp.ErrUnsupportedAlgorithm)
}

// TestSelect_RequiresNormalizedRequest leaves alias resolution and defaults
// to NormalizeRequest.
func TestSelect_RequiresNormalizedRequest(t *testing.T) {
	opts := tsp.DefaultOptions()
	for _, raw := range []tsp.Algorithm{"", "qaoa", " Exact ", "fallback", "greedy_downgrade"} {
		_, _, err := tsp.Select(tsp.Request{Algorithm: raw}, 5, opts)
		require.ErrorIs(t, err, tsp.ErrUnsupportedAlgorithm, "%q", raw)
	}

	// Shots are taken as given: 0 is not replaced by DefaultShots here.
	s, _, err := tsp.Select(tsp.Request{Algorithm: tsp.Sampled}, 5, opts)
	require.NoError(t, err)
	require.Equal(t, 1, s.(tsp.SampledSolver).Trials)
}

// TestNormalizeRequest resolves aliases, fills defaults and is idempotent.
func TestNormalizeRequest(t *testing.T) {
	got, err := tsp.NormalizeRequest(tsp.Request{Algorithm: " QAOA ", Seed: 9})
	require.NoError(t, err)
	want := tsp.Request{
		Algorithm:     tsp.Sampled,
		Shots:         tsp.DefaultShots,
		MaxIterations: tsp.DefaultMaxIterations,
		Seed:          9,
	}
	require.Equal(t, want, got)

	again, err := tsp.NormalizeRequest(got)
	require.NoError(t, err)
	require.Equal(t, got, again)

	got, err = tsp.NormalizeRequest(tsp.Request{})
	require.NoError(t, err)
	require.Equal(t, tsp.Greedy, got.Algorithm)

	_, err = tsp.NormalizeRequest(tsp.Request{Algorithm: "annealing"})
	require.ErrorIs(t, err, tsp.ErrUnsupportedAlgorithm)
	_, err = tsp.NormalizeRequest(tsp.Request{Shots: -1})
	require.ErrorIs(t, err, tsp.ErrInvalidInput)
	_, err = tsp.NormalizeRequest(tsp.Request{MaxIterations: -1})
	require.ErrorIs(t, err, tsp.ErrInvalidInput)
}

// TestParseAlgorithm normalizes case, whitespace and aliases.
func TestParseAlgorithm(t *testing.T) {
	cases := map[string]tsp.Algorithm{
		"":                   tsp.Greedy,
		"Greedy":             tsp.Greedy,
		"classical_fallback": tsp.Greedy,
		" EXACT ":            tsp.Exact,
		"vqe":                tsp.Sampled,
		"autoFallback":       tsp.AutoFallback,
		"auto_fallback":      tsp.AutoFallback,
	}
	for in, want := range cases {
		got, err := tsp.ParseAlgorithm(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := tsp.ParseAlgorithm("fallback")
	require.ErrorIs(t, err, tsp.ErrUnsupportedAlgorithm)
}
