package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/examine-dev/examine"
	"github.com/examine-dev/examine/internal/config"
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file.pdf>",
		Short: "Parse a PDF and emit the extraction result as JSON",
		Long: `Parse reconstructs a PDF's text lines, extracts its embedded diagrams
into storage, and segments the text into questions.

Storage is configured via the config file or environment variables
(EXAMINE_STORAGE_*); without remote credentials, diagrams are written to a
local directory.

Examples:
  # Parse to stdout, diagrams under ./diagrams
  examine parse paper.pdf --resource-id 01HZX --category grade-7

  # Write the result JSON to a file
  examine parse paper.pdf -r 01HZX -g grade-7 --out result.json`,
		Args: cobra.ExactArgs(1),
		RunE: runParseCmd,
	}

	cmd.Flags().StringP("resource-id", "r", "", "Opaque resource identifier (storage key component)")
	cmd.Flags().StringP("category", "g", "", "Category/grade label (storage key component)")
	cmd.Flags().IntP("max-pages", "p", examine.DefaultMaxPages, "Maximum number of pages to process")
	cmd.Flags().IntP("max-diagrams", "d", examine.DefaultMaxDiagramsPerPage, "Maximum diagrams per page")
	cmd.Flags().StringP("out", "o", "", "Write result JSON to a file instead of stdout")
	cmd.Flags().StringP("config", "c", "", "Path to YAML configuration file")

	_ = cmd.MarkFlagRequired("resource-id")

	return cmd
}

// runParseCmd executes the parse command.
func runParseCmd(cmd *cobra.Command, args []string) error {
	resourceID, _ := cmd.Flags().GetString("resource-id")
	category, _ := cmd.Flags().GetString("category")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	maxDiagrams, _ := cmd.Flags().GetInt("max-diagrams")
	out, _ := cmd.Flags().GetString("out")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	parser := examine.New(cfg.Store(),
		examine.WithMaxPages(maxPages),
		examine.WithMaxDiagramsPerPage(maxDiagrams),
	)

	result, warnings, err := parser.Parse(cmd.Context(), examine.Request{
		ResourceID: resourceID,
		Category:   category,
		Data:       data,
	})
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	encoded = append(encoded, '\n')

	if out == "" {
		_, err = cmd.OutOrStdout().Write(encoded)
		return err
	}
	if err := os.WriteFile(out, encoded, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	return nil
}
