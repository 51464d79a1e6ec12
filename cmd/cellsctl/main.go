// Command cellsctl drives the cellbind reactive engine from outside
// pkg/cell's API: it runs worked scenarios, prints dependency-graph
// introspection, benchmarks propagation latency, and reads/writes debug
// snapshots. None of this lives inside pkg/cell — cellsctl is a consumer
// of the public Cell/Trigger surface, not part of the core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

const banner = `
   _____     _ _ _     _           _
  / ____|   | | | |   (_)         | |
 | |     ___| | | |__  _ _ __   __| |
 | |    / _ \ | | '_ \| | '_ \ / _`+"`"+` |
 | |___|  __/ | | |_) | | | | | (_| |
  \_____\___|_|_|_.__/|_|_| |_|\__,_|
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "cellsctl",
		Short: "Inspect, benchmark and demo the cellbind reactive engine",
		Long: `cellsctl drives a cellbind cell graph from the outside: it runs the
canonical demo scenarios, prints dependency-graph introspection, benchmarks
propagation latency, and captures/reads debug snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a cellsctl.toml config file")

	rootCmd.AddCommand(
		demoCmd(),
		inspectCmd(),
		benchCmd(),
		dumpCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() { fmt.Print(banner) }
