package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apitestrunner/apitestrunner/internal/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate <test-file>",
	Short: "Load and structurally check a test document without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := scenario.LoadFile(args[0])
		if err != nil {
			return err
		}
		steps := 0
		for _, t := range doc.Tests {
			steps += len(t.Steps)
		}
		fmt.Printf("%s: %d tests, %d steps, ok\n", args[0], len(doc.Tests), steps)
		return nil
	},
}
