package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glhrmbg/ctdose/internal/report"
)

// NewConvertCmd creates the convert command.
// This command re-renders a previously produced JSON report, so a batch
// extracted once can feed the spreadsheet again without re-reading the
// source DICOM files.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <report.json>",
		Short: "Convert a JSON report into a spreadsheet or Markdown",
		Long: `Convert reads a JSON report produced by 'ctdose extract --json' and
renders it in another output format. By default it produces the Excel
spreadsheet; use --markdown for a Markdown table instead.

The conversion is value-preserving: cells come out identical to what a
direct extraction into that format would have produced.

Examples:
  # JSON to the default spreadsheet
  ctdose convert report.json

  # Choose the spreadsheet path
  ctdose convert report.json -o study-doses.xlsx

  # JSON to Markdown on stdout
  ctdose convert --markdown report.json`,
		Args: cobra.ExactArgs(1),
		RunE: runConvertCmd,
	}

	cmd.Flags().BoolP("markdown", "m", false,
		"Render Markdown instead of a spreadsheet")
	cmd.Flags().StringP("output", "o", "",
		"Output file path (default: dose-report.xlsx for spreadsheets, stdout for Markdown)")

	return cmd
}

// runConvertCmd executes the convert command.
func runConvertCmd(cmd *cobra.Command, args []string) error {
	markdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	in, err := os.Open(args[0]) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer in.Close()

	doc, err := report.ReadJSONReport(in)
	if err != nil {
		return fmt.Errorf("failed to parse report %s: %w", args[0], err)
	}

	if markdown {
		out := os.Stdout
		if outputPath != "" {
			f, err := createOutput(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		w := report.NewMarkdownWriter(out)
		for _, rec := range doc.Records {
			if _, err := w.Write(rec); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		if _, err := w.Flush(); err != nil {
			return fmt.Errorf("failed to finalize report: %w", err)
		}
		return nil
	}

	if outputPath == "" {
		outputPath = defaultExcelFile
	} else if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		return fmt.Errorf("spreadsheet output must end in .xlsx: %s", outputPath)
	}

	f, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := report.NewExcelWriter(f)
	if err != nil {
		return err
	}
	for _, rec := range doc.Records {
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if _, err := w.Flush(); err != nil {
		return fmt.Errorf("failed to finalize report: %w", err)
	}

	fmt.Printf("Converted %d records to %s\n", doc.Count, outputPath)
	return nil
}

// createOutput creates the output file, making parent directories first.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
