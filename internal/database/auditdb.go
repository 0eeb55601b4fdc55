package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/glhrmbg/ctdose/internal/model"
)

// AuditDB provides SQLite-based storage for extraction history.
// It manages connection pooling and provides methods for journaling and
// querying past extractions.
//
// Design decision: We use a single database file for all extractions
// rather than one per batch. This is what makes cross-batch queries
// (patient history, repeat extractions of the same file) possible.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "ctdose.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// Path returns the path of the database file.
func (adb *AuditDB) Path() string {
	return adb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Extractions journal one consolidated record per processed document.
	-- The indexed columns are denormalized from the record for querying;
	-- record_json holds the full record.
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_file TEXT NOT NULL,
		patient_id TEXT NOT NULL DEFAULT '',
		accession_number TEXT NOT NULL DEFAULT '',
		exam_date TEXT NOT NULL DEFAULT '',
		total_dlp TEXT NOT NULL DEFAULT '',
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		record_json TEXT NOT NULL,
		UNIQUE(source_file, patient_id, accession_number)
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_patient ON extractions(patient_id);
	CREATE INDEX IF NOT EXISTS idx_extractions_timestamp ON extractions(timestamp);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// ExtractionEntry is one journaled extraction.
type ExtractionEntry struct {
	ID              int64
	SourceFile      string
	PatientID       string
	AccessionNumber string
	ExamDate        string
	TotalDLP        string
	Timestamp       time.Time
	Record          *model.ConsolidatedRecord
}

// InsertExtraction journals one consolidated record.
// Re-extracting the same file for the same patient and accession replaces
// the previous entry rather than duplicating it.
func (adb *AuditDB) InsertExtraction(ctx context.Context, rec *model.ConsolidatedRecord) (int64, error) {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize record: %w", err)
	}

	var totalDLP string
	if len(rec.Exams) > 0 {
		totalDLP = rec.Exams[0].TotalDLP.Render("")
	}

	query := `
	INSERT INTO extractions (source_file, patient_id, accession_number, exam_date, total_dlp, record_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(source_file, patient_id, accession_number) DO UPDATE SET
		exam_date = excluded.exam_date,
		total_dlp = excluded.total_dlp,
		record_json = excluded.record_json,
		timestamp = CURRENT_TIMESTAMP
	`

	result, err := adb.db.ExecContext(ctx, query,
		rec.SourceFile,
		rec.PatientID.Render(""),
		rec.AccessionNumber.Render(""),
		rec.ExamDate.Render(""),
		totalDLP,
		string(recordJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert extraction: %w", err)
	}

	return result.LastInsertId()
}

// ListExtractions returns journaled extractions, newest first, optionally
// filtered by patient ID. A non-positive limit returns everything.
func (adb *AuditDB) ListExtractions(ctx context.Context, patientID string, limit int) ([]ExtractionEntry, error) {
	query := `
	SELECT id, source_file, patient_id, accession_number, exam_date, total_dlp, timestamp, record_json
	FROM extractions
	WHERE 1=1
	`
	args := make([]any, 0, 2)
	if patientID != "" {
		query += " AND patient_id = ?"
		args = append(args, patientID)
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions: %w", err)
	}
	defer rows.Close()

	var entries []ExtractionEntry
	for rows.Next() {
		var e ExtractionEntry
		var timestamp, recordJSON string
		if err := rows.Scan(
			&e.ID,
			&e.SourceFile,
			&e.PatientID,
			&e.AccessionNumber,
			&e.ExamDate,
			&e.TotalDLP,
			&timestamp,
			&recordJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		e.Timestamp = parseTimestamp(timestamp)

		var rec model.ConsolidatedRecord
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, fmt.Errorf("failed to parse stored record: %w", err)
		}
		e.Record = &rec

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountExtractions returns the number of journaled extractions.
func (adb *AuditDB) CountExtractions(ctx context.Context) (int, error) {
	var count int
	err := adb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM extractions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count extractions: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
