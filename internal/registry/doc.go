// Package registry maps DICOM concept codes to semantic field roles.
//
// Dose structured reports identify measurements by numeric concept codes
// rather than fixed field names. This package is the single, build-time-fixed
// table translating those codes into field roles and combination rules; the
// tree walker never hard-codes a code's meaning inline.
//
// Design decision: A closed lookup table instead of switch statements in the
// traversal logic means supporting a new concept code is a one-line table
// edit, and the mapping can be inspected and tested in isolation. Codes
// absent from the table are a silent miss, not an error: the table is
// deliberately partial and reports routinely carry codes we do not extract.
package registry
