// Package record builds the final consolidated patient record for one
// document.
//
// Demographics come from the document's flat attribute set (plain DICOM
// attributes), never from the nested content tree; dose data arrives already
// aggregated. Derived fields -- patient age, formatted exam dates, average
// scan size -- are computed here and nowhere earlier, so the core extraction
// stages stay free of presentation concerns.
//
// The missing-value policy is uniform: anything the builder cannot derive is
// the explicit missing sentinel, never an empty string, so output adapters
// can distinguish "absent" from "present-but-blank".
package record
