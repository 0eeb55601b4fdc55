// Package model defines the core data structures used throughout ctdose.
//
// This package contains the following main types:
//   - ContentNode: One node of a decoded structured-report content tree
//   - Value: A field value that distinguishes "missing" from "present"
//   - ExamDoseRecord: Aggregated dose data for one exam
//   - ConsolidatedRecord: The final flat record handed to output writers
//   - Extraction: The per-document carrier threaded through the pipeline
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (walker, aggregate, record, report, database)
// need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage. The missing-value representation never collapses to a
// display string inside this package; rendering "-" for absent fields is the
// job of the output writers.
package model
