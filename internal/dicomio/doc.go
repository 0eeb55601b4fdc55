// Package dicomio reads DICOM dose structured reports from disk and turns
// them into the neutral content tree the extraction core operates on.
//
// The package has three jobs:
//   - sniffing: cheap detection of DICOM files by the DICM magic bytes,
//     used both to validate explicit inputs and to discover extensionless
//     files during directory scans
//   - decoding: parsing a structured report dataset into a model.ContentNode
//     tree plus the flat top-level attribute set (demographics, study
//     identifiers, institution)
//   - discovery: walking a directory for candidate report files
//
// Design decision: the decoder is the only package that imports the DICOM
// parser. Everything downstream of it works on model types, so the parser
// library can be swapped without touching the extraction core.
package dicomio
