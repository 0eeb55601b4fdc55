package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glhrmbg/ctdose/internal/config"
	"github.com/glhrmbg/ctdose/internal/database"
)

// NewHistoryCmd creates the history command.
// This command queries the extraction journal in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously extracted dose records",
		Long: `History lists extractions journaled by previous 'ctdose extract' runs.

Each entry shows when the extraction happened, the source file, the
patient, the exam date, and the total DLP. Use --patient to restrict the
listing to one patient ID.

Examples:
  # Show the most recent extractions
  ctdose history

  # Extraction history for one patient
  ctdose history --patient PAT001

  # Everything, as JSON
  ctdose history --json --limit 0`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("patient", "p", "",
		"Only show extractions for this patient ID")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of entries to show (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output entries in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	patientID, err := cmd.Flags().GetString("patient")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// The journal must already exist; history never creates an empty one.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no extraction history found (run 'ctdose extract' first): %w", err)
	}
	defer db.Close()

	entries, err := db.ListExtractions(cmd.Context(), patientID, limit)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No extractions recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPATIENT\tEXAM DATE\tTOTAL DLP\tSOURCE")
	for _, e := range entries {
		when := ""
		if !e.Timestamp.IsZero() {
			when = e.Timestamp.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			when, orDash(e.PatientID), orDash(e.ExamDate), orDash(e.TotalDLP), e.SourceFile)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d entries\n", len(entries))
	return nil
}

// orDash renders empty strings as a placeholder for the table view.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
