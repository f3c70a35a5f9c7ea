package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/store"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <filename>",
	Short: "Get a single paper by filename",
	Long: `Get the full index record of one paper, including its reference list
and citation edges.

Example:
  citenet get attention.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	p, err := lib.openStore().Get(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitError, "paper not found: %s", args[0])
		}
		exitWithError(ExitError, "getting paper: %v", err)
	}

	if humanOutput {
		printPaperDetail(p)
	} else {
		outputJSON(p)
	}
	return nil
}

func printPaperDetail(p paper.Paper) {
	const indent = "          "

	fmt.Println(p.Filename)
	fmt.Println(strings.Repeat("═", DetailTitleMaxLen))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(p.Title, 60, indent))
	if len(p.Authors) > 0 {
		fmt.Printf("Authors:  %s\n", wrapText(strings.Join(p.Authors, ", "), 60, indent))
	}
	if p.Year != "" {
		fmt.Printf("Year:     %s\n", p.Year)
	}
	if p.ExternalID != "" {
		fmt.Printf("S2 ID:    %s\n", p.ExternalID)
	}
	fmt.Printf("Path:     %s\n", p.Filepath)

	if p.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", wrapText(p.Abstract, TextWrapWidth, "  "))
	}

	if len(p.Cites) > 0 {
		fmt.Println()
		fmt.Printf("Cites:    %s\n", strings.Join(p.Cites, ", "))
	}
	if len(p.CitedBy) > 0 {
		fmt.Printf("Cited by: %s\n", strings.Join(p.CitedBy, ", "))
	}

	fmt.Println()
	fmt.Printf("References (%d):\n", len(p.References))
	for i, r := range p.References {
		fmt.Printf("  %3d. %s\n", i+1, wrapText(r.Text, TextWrapWidth-5, "       "))
	}
}
