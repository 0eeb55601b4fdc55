package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/glhrmbg/ctdose/internal/model"
)

// JSONWriter outputs records in JSON format.
// This format is designed for tool integration and as the intermediate
// format the convert command reads back, so it preserves the full record
// structure including per-event breakdowns.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	records []*model.ConsolidatedRecord

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document wrapper around the record list. The metadata
// lets a consumer distinguish an empty extraction from a truncated file.
type JSONReport struct {
	GeneratedAt time.Time                   `json:"generated_at"`
	Count       int                         `json:"count"`
	Records     []*model.ConsolidatedRecord `json:"records"`
}

// Write buffers one record. All bytes are written on Flush.
func (w *JSONWriter) Write(record *model.ConsolidatedRecord) (int, error) {
	w.records = append(w.records, record)
	return 0, nil
}

// Flush writes the wrapped record list as a single JSON document.
func (w *JSONWriter) Flush() (int, error) {
	doc := JSONReport{
		GeneratedAt: time.Now().UTC(),
		Count:       len(w.records),
		Records:     w.records,
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for better terminal output.
	data = append(data, '\n')
	return w.output.Write(data)
}

// ReadJSONReport parses a JSON report document previously produced by a
// JSONWriter. Used by the convert command to re-render extractions without
// touching the source DICOM files again.
func ReadJSONReport(r io.Reader) (*JSONReport, error) {
	var doc JSONReport
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
