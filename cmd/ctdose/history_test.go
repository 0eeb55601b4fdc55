package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/glhrmbg/ctdose/internal/database"
	"github.com/glhrmbg/ctdose/internal/model"
)

// seedHistoryDB creates a history database with one journaled record and
// returns its directory.
func seedHistoryDB(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	rec := &model.ConsolidatedRecord{
		SourceFile: "/data/dose1.dcm",
		PatientID:  model.Text("PAT001"),
		ExamDate:   model.Text("20240528"),
		Exams: []model.ExamDoseRecord{
			{TotalDLP: model.Number(805.1, "mGy.cm")},
		},
	}
	if _, err := db.InsertExtraction(context.Background(), rec); err != nil {
		t.Fatalf("failed to insert extraction: %v", err)
	}
	return dir
}

// TestHistoryCmd tests the history command.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists journaled extractions", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"PATIENT", "PAT001", "805.1 mGy.cm", "/data/dose1.dcm", "1 entries"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q: %s", want, out)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir, "--json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var entries []database.ExtractionEntry
		if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].PatientID != "PAT001" {
			t.Errorf("expected patient PAT001, got %q", entries[0].PatientID)
		}
	})

	t.Run("patient filter excludes others", func(t *testing.T) {
		t.Parallel()

		dir := seedHistoryDB(t)
		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir, "--patient", "NOBODY"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No extractions recorded.") {
			t.Errorf("expected empty listing, got %s", buf.String())
		}
	})

	t.Run("missing database errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error for missing database")
		}
		if !strings.Contains(err.Error(), "no extraction history") {
			t.Errorf("unexpected error message: %v", err)
		}
	})
}
