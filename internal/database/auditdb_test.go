package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glhrmbg/ctdose/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *AuditDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testRecord(source, patientID string, dlp float64) *model.ConsolidatedRecord {
	return &model.ConsolidatedRecord{
		SourceFile:      source,
		PatientID:       model.Text(patientID),
		PatientName:     model.Text("DOE JOHN"),
		AccessionNumber: model.Text("ACC01"),
		ExamDate:        model.Text("May 28, 2024"),
		Exams: []model.ExamDoseRecord{
			{TotalDLP: model.Number(dlp, "mGy.cm")},
		},
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "ctdose.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false requires existing database", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected an error for a missing database")
		}
	})
}

// TestInsertExtraction tests journaling and the replace-on-conflict rule.
func TestInsertExtraction(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.InsertExtraction(ctx, testRecord("a.dcm", "PAT001", 805.1)); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	count, err := db.CountExtractions(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d extractions, expected 1", count)
	}

	// Same file, patient, and accession: replaced, not duplicated.
	if _, err := db.InsertExtraction(ctx, testRecord("a.dcm", "PAT001", 810.0)); err != nil {
		t.Fatalf("failed to re-insert: %v", err)
	}
	count, err = db.CountExtractions(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d extractions after re-insert, expected 1", count)
	}

	entries, err := db.ListExtractions(ctx, "PAT001", 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].TotalDLP != "810 mGy.cm" {
		t.Errorf("total DLP = %q, expected the replaced value", entries[0].TotalDLP)
	}
}

// TestListExtractions tests filtering and the stored record round trip.
func TestListExtractions(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, rec := range []*model.ConsolidatedRecord{
		testRecord("a.dcm", "PAT001", 805.1),
		testRecord("b.dcm", "PAT002", 120.4),
		testRecord("c.dcm", "PAT001", 333.3),
	} {
		if _, err := db.InsertExtraction(ctx, rec); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
	}

	t.Run("filter by patient", func(t *testing.T) {
		t.Parallel()

		entries, err := db.ListExtractions(ctx, "PAT001", 0)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries, expected 2", len(entries))
		}
		for _, e := range entries {
			if e.PatientID != "PAT001" {
				t.Errorf("entry patient = %q", e.PatientID)
			}
			if e.Record == nil || !e.Record.PatientName.Present() {
				t.Error("stored record must deserialize with its values")
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		entries, err := db.ListExtractions(ctx, "", 2)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("got %d entries, expected 2", len(entries))
		}
	})

	t.Run("unknown patient", func(t *testing.T) {
		t.Parallel()

		entries, err := db.ListExtractions(ctx, "PAT999", 0)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("got %d entries, expected none", len(entries))
		}
	})
}
