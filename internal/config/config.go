package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Chosen to match how the tool is actually run: modest batches of report
// files on a workstation, feeding a spreadsheet.
const (
	// DefaultConcurrency of 4 concurrent documents balances throughput
	// with memory usage. Each in-flight document holds its full content
	// tree until aggregation, so very high values buy little.
	DefaultConcurrency = 4

	// DefaultMaxDepth is the traversal depth ceiling for report trees.
	// Real dose reports nest five or six levels deep; this limit exists
	// to turn pathological files into per-document errors.
	DefaultMaxDepth = 50

	// AppName is the application name used for XDG directory paths.
	AppName = "ctdose"
)

// Config holds all configuration options for the extractor.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ExtractConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Inputs is the list of files and directories to extract from.
	// Directories are walked recursively for candidate DICOM files.
	Inputs []string

	// Concurrency is the number of documents processed at once.
	Concurrency int

	// MaxDepth is the report tree traversal ceiling.
	MaxDepth int

	// Strict discards documents that carry no dose payload instead of
	// keeping a demographics-only record.
	Strict bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output.
	// Mutually exclusive with MarkdownReport; Excel output is controlled
	// separately because it always goes to a file.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// OutputFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Required for Excel output. Directories are created automatically.
	OutputFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .ctdose in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	FileConfig *File

	// DBDir is the directory path for storing the SQLite history database.
	// When set, extraction results are journaled for the history command.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to journal extractions to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (concurrency, depth).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Concurrency: DefaultConcurrency,
		MaxDepth:    DefaultMaxDepth,
	}
}

// XDGDataDir returns the XDG data directory for the extractor.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/ctdose
// On macOS: ~/Library/Application Support/ctdose
// On Windows: %LOCALAPPDATA%\ctdose
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the extractor.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any extraction begins.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.MaxDepth <= 0 {
		return ErrInvalidMaxDepth
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
