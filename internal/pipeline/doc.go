// Package pipeline orchestrates per-document dose extraction as a sequence
// of steps (decode, aggregate, build) and fans a batch of documents out
// over a bounded worker group.
//
// Each document is carried through the steps in a model.Extraction that no
// other document shares, so batch processing needs no locking beyond
// collecting results. A document that fails mid-pipeline records its error
// in the Extraction and never aborts the batch.
package pipeline
