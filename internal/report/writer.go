package report

import (
	"io"

	"github.com/glhrmbg/ctdose/internal/model"
)

// missingCell is how absent values render in tabular output formats.
// JSON output uses null instead; the distinction is deliberate, because a
// JSON consumer can test for null while a spreadsheet reader needs a
// visible placeholder.
const missingCell = "-"

// Writer defines the interface for report output.
// Implementations collect records and emit them in a specific format.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write adds one consolidated record to the report.
	// Returns the number of bytes written immediately and any error
	// encountered. Buffering writers return 0 until Flush.
	Write(record *model.ConsolidatedRecord) (int, error)

	// Flush finalizes the report and writes any buffered output.
	Flush() (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for producing JSON and Excel output in a single run.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write records, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write adds the record to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(record *model.ConsolidatedRecord) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(record)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Flush finalizes all configured Writers.
func (m *MultiWriter) Flush() (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Flush()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
