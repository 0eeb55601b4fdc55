// Package report writes consolidated dose records in the supported output
// formats: JSON for tool integration, Excel for the radiology workflows the
// extractor exists to feed, and Markdown for quick human review.
//
// All writers implement the same Writer interface and consume the
// model.Columns projection, so the extraction core never knows which
// formats are active. Writers buffer records and produce their output on
// Flush, which is what lets a single batch run feed several formats at
// once through MultiWriter.
package report
