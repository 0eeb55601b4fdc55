package model

import "time"

// ConsolidatedRecord is the final flat record for one document: patient
// demographics merged with the exam dose records extracted from it.
// Once emitted to an output writer it is never mutated.
type ConsolidatedRecord struct {
	// SourceFile is the path of the document this record came from.
	// Informational only; not part of the tabular output.
	SourceFile string `json:"source_file,omitempty"`

	// === Demographics (from the flat attribute set, not the tree) ===

	PatientID   Value `json:"patient_id"`
	PatientName Value `json:"patient_name"`
	Sex         Value `json:"sex"`
	BirthDate   Value `json:"birth_date"`

	// Age is the patient age at exam time in whole years. Derived by the
	// record builder using calendar-date truncation.
	Age Value `json:"age"`

	// === Exam context ===

	StudyID         Value `json:"study_id"`
	AccessionNumber Value `json:"accession_number"`
	ExamDate        Value `json:"exam_date"`
	Hospital        Value `json:"hospital"`

	// AvgScanSize is the mean per-event scanning length, when available.
	AvgScanSize Value `json:"avg_scan_size"`

	// Exams holds the aggregated dose data. Ordinarily one per document;
	// kept as a slice because a record legitimately carries zero exams
	// when the builder runs in non-strict mode on a dose-free document.
	Exams []ExamDoseRecord `json:"exams"`
}

// Columns is the fixed column set of the tabular output, in order. Both the
// Excel and Markdown writers consume exactly this layout so either can be
// swapped in without the core knowing which format is active.
var Columns = []string{
	"Patient ID", "Patient name", "Sex", "Birth date", "Age", "Protocol",
	"Exam date", "Series description", "Scan mode", "mAs", "kV", "CTDIvol",
	"DLP", "Total DLP", "Phantom type", "SSDE", "Avg scan size",
}

// Rows projects the record onto the tabular layout: one row per irradiation
// event, falling back to one demographics-only row when the record carries
// no events. Every row has exactly len(Columns) values.
func (r *ConsolidatedRecord) Rows() [][]Value {
	var rows [][]Value
	for i := range r.Exams {
		exam := &r.Exams[i]
		if len(exam.Events) == 0 {
			rows = append(rows, r.row(exam, nil))
			continue
		}
		for j := range exam.Events {
			rows = append(rows, r.row(exam, &exam.Events[j]))
		}
	}
	if len(rows) == 0 {
		rows = append(rows, r.row(nil, nil))
	}
	return rows
}

// row builds one output row. Per-event values win over the exam-level
// consolidation; both may be nil for demographics-only rows.
func (r *ConsolidatedRecord) row(exam *ExamDoseRecord, event *EventDose) []Value {
	var protocol, scanMode, comment, ctdivol, dlp, totalDLP Value
	var phantom, ssde, tubeCurrent, kvp Value
	if exam != nil {
		protocol = exam.Protocol
		scanMode = exam.ScanMode
		comment = exam.Comment
		ctdivol = exam.CTDIvol
		totalDLP = exam.TotalDLP
		phantom = exam.PhantomType
		ssde = exam.SSDE
		tubeCurrent = exam.TubeCurrent
		kvp = exam.KVP
	}
	if event != nil {
		override(&protocol, event.Protocol)
		override(&scanMode, event.ScanMode)
		override(&comment, event.Comment)
		override(&ctdivol, event.CTDIvol)
		dlp = event.DLP
		override(&phantom, event.PhantomType)
		override(&ssde, event.SSDE)
		override(&tubeCurrent, event.TubeCurrent)
		override(&kvp, event.KVP)
	}
	return []Value{
		r.PatientID, r.PatientName, r.Sex, r.BirthDate, r.Age,
		protocol, r.ExamDate, comment, scanMode, tubeCurrent, kvp,
		ctdivol, dlp, totalDLP, phantom, ssde, r.AvgScanSize,
	}
}

// override replaces dst with v when v is present. Missing event values fall
// back to the exam-level consolidation.
func override(dst *Value, v Value) {
	if v.Present() {
		*dst = v
	}
}

// Extraction is the per-document carrier threaded through pipeline steps.
// Each document owns its Extraction exclusively; there is no shared mutable
// state between documents, which is what makes batch processing trivially
// parallelizable.
type Extraction struct {
	// Path is the source file being processed.
	Path string

	// Tree is the decoded content tree. Populated by the decode step and
	// discarded after aggregation.
	Tree *ContentNode

	// Attributes is the flat top-level attribute set (demographics, study
	// identifiers, institution) keyed by DICOM keyword.
	Attributes map[string]string

	// Dose is the aggregated exam dose record.
	Dose *ExamDoseRecord

	// Record is the final consolidated record. Nil when the document was
	// discarded (strict mode and no dose payload).
	Record *ConsolidatedRecord

	// Discarded marks documents dropped by strict mode or rejected by the
	// decoder (not a dose SR).
	Discarded bool

	// Err records a per-document failure. A failed document never aborts
	// the batch; the error is logged and the document skipped.
	Err error

	// StartedAt is when processing of this document began.
	StartedAt time.Time
}

// NewExtraction creates an Extraction for the given source path.
func NewExtraction(path string) *Extraction {
	return &Extraction{
		Path:      path,
		StartedAt: time.Now(),
	}
}
