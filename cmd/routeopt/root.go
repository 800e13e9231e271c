package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "routeopt",
	Short: "Travelling-salesman route optimizer",
	Long: "routeopt builds closed tours over planar cities with a greedy, an exact\n" +
		"or a sampled multi-start strategy, downgrading oversize requests to greedy.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.Version = version
}
