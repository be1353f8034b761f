// atr is the API test runner CLI. It loads a declarative test document,
// executes its scenarios against a live HTTP endpoint, writes a JSON report,
// and prints a console summary.
//
// Test failures are reported through the report and summary only: the
// process exits non-zero for load and output errors, never for failed tests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "atr",
	Short:         "Declarative HTTP API test runner",
	Long:          "atr runs JSON/YAML test documents describing HTTP request/validate/extract scenarios against a live endpoint.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "atr: %v\n", err)
		os.Exit(1)
	}
}
