package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// NewRootCmd creates the root command for examine.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examine",
		Short: "Extract lines, diagrams and questions from exam-paper PDFs",
		Long: `examine reconstructs the content of exam-paper PDFs: text grouped
into visual lines with normalized bounding boxes, embedded raster diagrams
persisted to storage, and a heuristic segmentation of the text into
questions. Output is a single JSON document.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewParseCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
