// routeopt is the route optimizer CLI: serve, solve, compare.
//
// Usage:
//
//	routeopt serve [--port=<n>]
//	routeopt solve --file=<cities.yaml|json> [--algorithm=<name>] [--shots=<n>] [--seed=<n>] [--json]
//	routeopt compare [--sizes=4,6,8,10] [--seed=<n>] [--shots=<n>] [--markdown]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
