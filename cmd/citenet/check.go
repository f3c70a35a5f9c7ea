package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/citegraph"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify citation graph consistency",
	Long: `Check that every cites entry has a matching cited_by entry and vice
versa, that no paper cites itself, that edges point at indexed papers and that
no edge is listed twice. Exits with code 3 when violations are found.

Example:
  citenet check`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status     string                `json:"status"`
	Papers     int                   `json:"papers"`
	Violations []citegraph.Violation `json:"violations"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	records := lib.openStore().Snapshot()
	violations := citegraph.Check(records)
	if violations == nil {
		violations = []citegraph.Violation{}
	}

	res := CheckResult{Status: "ok", Papers: len(records), Violations: violations}
	if len(violations) > 0 {
		res.Status = "failed"
	}

	if humanOutput {
		if len(violations) == 0 {
			fmt.Printf("Graph consistent across %d papers\n", len(records))
		} else {
			fmt.Printf("%d violations:\n", len(violations))
			for _, v := range violations {
				fmt.Printf("  %s -> %s: %s\n", v.Source, v.Target, v.Reason)
			}
		}
	} else {
		outputJSON(res)
	}

	if len(violations) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}
