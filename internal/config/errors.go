package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no input file or directory is specified.
	ErrNoInput = errors.New("no input specified: provide DICOM files or directories")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	// A concurrency of zero would mean no documents are ever processed.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxDepth is returned when the depth ceiling is not positive.
	// A ceiling of zero would reject every document outright.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one stdout format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
