package dicomio

import "errors"

var (
	// ErrNotDICOM is returned when a file lacks the DICM magic bytes.
	ErrNotDICOM = errors.New("dicomio: not a DICOM file")

	// ErrNotStructuredReport is returned when a DICOM file parses cleanly
	// but is not a structured report (wrong modality or no content tree).
	ErrNotStructuredReport = errors.New("dicomio: not a structured report")
)
