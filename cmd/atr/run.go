package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/apitestrunner/apitestrunner/internal/scenario"
)

var (
	flagOutput  string
	flagBaseURL string
	flagVerbose bool
)

var runCmd = &cobra.Command{
	Use:   "run <test-file>",
	Short: "Run the scenarios in a test document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := scenario.LoadFile(args[0])
		if err != nil {
			return err
		}
		if flagBaseURL != "" {
			doc.Config.BaseURL = flagBaseURL
		}

		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelInfo
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		// Ctrl-C stops between steps and aborts any in-flight request.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := scenario.NewRunner(doc)
		runner.SetLogger(logger)
		results := runner.RunAll(ctx)

		report := scenario.BuildReport(doc.Config, results)
		if err := scenario.WriteReport(flagOutput, report); err != nil {
			return err
		}

		printSummary(report)
		fmt.Printf("\n%d/%d steps passed (%.2f%%), report written to %s\n",
			report.Passed, report.Total, report.SuccessRate, flagOutput)
		return nil
	},
}

func printSummary(report *scenario.RunReport) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"TEST", "STEPS", "PASSED", "RESULT", "DURATION"})
	for _, tr := range report.Tests {
		passed := 0
		for _, sr := range tr.Steps {
			if sr.Success {
				passed++
			}
		}
		result := "PASS"
		if !tr.Passed {
			result = "FAIL"
		}
		tw.Append([]string{
			tr.Name,
			strconv.Itoa(len(tr.Steps)),
			fmt.Sprintf("%d/%d", passed, len(tr.Steps)),
			result,
			fmt.Sprintf("%dms", tr.DurationMs),
		})
	}
	tw.Render()
}

func init() {
	runCmd.Flags().StringVarP(&flagOutput, "output", "o", "test_results.json", "Report output path")
	runCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Override the document's baseUrl")
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log step progress")
}
