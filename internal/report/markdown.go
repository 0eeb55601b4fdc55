package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/glhrmbg/ctdose/internal/model"
)

// MarkdownWriter outputs records in Markdown format.
// This format is designed for quick human review in a terminal or a pull
// request, not for downstream processing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	records []*model.ConsolidatedRecord

	// now is swapped in tests for a fixed timestamp.
	now func() time.Time
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		now:        time.Now,
	}
}

// Write buffers one record. The document is rendered on Flush.
func (w *MarkdownWriter) Write(record *model.ConsolidatedRecord) (int, error) {
	w.records = append(w.records, record)
	return 0, nil
}

// Flush renders the buffered records as one Markdown document.
func (w *MarkdownWriter) Flush() (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md)
	w.writeTable(md)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the document title and generation metadata.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown) {
	md.H1("CT Dose Report")
	md.PlainText("")
	md.PlainTextf("Generated %s. %s.",
		w.now().Format("2006-01-02 15:04:05 MST"),
		pluralize(len(w.records), "record"))
	md.PlainText("")
}

// writeTable writes the consolidated table, one row per irradiation event.
func (w *MarkdownWriter) writeTable(md *markdown.Markdown) {
	rows := make([][]string, 0, len(w.records))
	for _, rec := range w.records {
		for _, row := range rec.Rows() {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = v.Render(missingCell)
			}
			rows = append(rows, cells)
		}
	}

	md.Table(markdown.TableSet{
		Header: model.Columns,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the closing note.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("Missing values are shown as `-`.")
}

// pluralize formats a count with a naive plural of the given noun.
func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
