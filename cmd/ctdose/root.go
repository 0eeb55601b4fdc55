package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ctdose.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctdose",
		Short: "Extract radiation dose data from CT dose structured reports",
		Long: `ctdose reads CT radiation dose structured reports (DICOM SR) and
consolidates patient demographics and per-acquisition dose measurements
into spreadsheet, JSON, or Markdown output.

Point it at individual files or at a directory; directories are walked
recursively and non-report files are skipped automatically.`,
		Version:       appVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewConvertCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
