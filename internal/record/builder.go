package record

import (
	"log/slog"
	"strings"

	"github.com/glhrmbg/ctdose/internal/model"
)

// Attribute keys of the flat top-level set delivered by the decoder. These
// are DICOM keywords, not concept codes: demographics live in ordinary
// attributes, not in the nested content tree.
const (
	AttrPatientID       = "PatientID"
	AttrPatientName     = "PatientName"
	AttrPatientSex      = "PatientSex"
	AttrPatientBirth    = "PatientBirthDate"
	AttrStudyID         = "StudyID"
	AttrAccessionNumber = "AccessionNumber"
	AttrStudyDate       = "StudyDate"
	AttrStudyTime       = "StudyTime"
	AttrInstitution     = "InstitutionName"
	AttrContentDate     = "ContentDate"
	AttrContentTime     = "ContentTime"
)

// Builder merges flat demographic attributes with aggregated exam dose
// records into one consolidated record per document.
type Builder struct {
	strict bool
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithStrict makes the builder discard documents whose exam dose records are
// all empty. In the default lax mode such documents are retained with
// all-missing dose fields, because demographics alone still have audit value.
func WithStrict(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New creates a Builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build produces the consolidated record for one document, or nil when the
// document is discarded (strict mode with no dose payload).
//
// Missing demographics never fail the document: dose data is still valuable
// without complete patient metadata, so the builder emits a partial record
// with the absent fields at the missing sentinel.
func (b *Builder) Build(attrs map[string]string, exams []model.ExamDoseRecord) *model.ConsolidatedRecord {
	if b.strict && allEmpty(exams) {
		b.logger.Debug("discarding document without dose payload",
			"exams", len(exams),
		)
		return nil
	}

	rec := &model.ConsolidatedRecord{
		PatientID:       attrValue(attrs, AttrPatientID),
		PatientName:     nameValue(attrs[AttrPatientName]),
		Sex:             attrValue(attrs, AttrPatientSex),
		BirthDate:       formatDate(attrs[AttrPatientBirth]),
		StudyID:         attrValue(attrs, AttrStudyID),
		AccessionNumber: attrValue(attrs, AttrAccessionNumber),
		ExamDate:        formatDateTime(attrs[AttrStudyDate], attrs[AttrStudyTime]),
		Hospital:        attrValue(attrs, AttrInstitution),
		Exams:           keepNonEmpty(exams, b.strict),
	}

	rec.Age = b.age(attrs)
	rec.AvgScanSize = avgScanSize(rec.Exams)

	if !rec.PatientID.Present() || !rec.BirthDate.Present() {
		b.logger.Warn("emitting partial record: incomplete demographics",
			"patient_id", attrs[AttrPatientID],
			"has_birth_date", rec.BirthDate.Present(),
		)
	}

	return rec
}

// age derives the patient age at exam time in whole calendar years. Missing
// or unparseable dates yield the missing sentinel, never a guessed age.
func (b *Builder) age(attrs map[string]string) model.Value {
	birth, ok := parseDICOMDate(attrs[AttrPatientBirth])
	if !ok {
		return model.Missing()
	}
	exam, ok := parseDICOMDate(attrs[AttrStudyDate])
	if !ok {
		return model.Missing()
	}
	return model.Number(float64(ageAt(birth, exam)), "")
}

// attrValue converts a flat attribute into a record value. Whitespace-only
// attributes count as absent so a padded blank never masquerades as data.
func attrValue(attrs map[string]string, key string) model.Value {
	s := strings.TrimSpace(attrs[key])
	if s == "" {
		return model.Missing()
	}
	return model.Text(s)
}

// nameValue cleans DICOM person-name formatting: component separators become
// spaces and runs of blanks collapse ("DOE^JOHN^^^" -> "DOE JOHN").
func nameValue(raw string) model.Value {
	s := strings.ReplaceAll(raw, "^", " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return model.Missing()
	}
	return model.Text(s)
}

// avgScanSize is the mean of the per-event scanning lengths across all exams,
// missing when no event reported one.
func avgScanSize(exams []model.ExamDoseRecord) model.Value {
	var sum float64
	var unit string
	var n int
	for i := range exams {
		for j := range exams[i].Events {
			if f, ok := exams[i].Events[j].ScanningLength.Float(); ok {
				sum += f
				n++
				if unit == "" {
					unit = exams[i].Events[j].ScanningLength.Unit()
				}
			}
		}
	}
	if n == 0 {
		return model.Missing()
	}
	return model.Number(sum/float64(n), unit)
}

// allEmpty reports whether every exam record carries no dose payload.
func allEmpty(exams []model.ExamDoseRecord) bool {
	for i := range exams {
		if !exams[i].Empty() {
			return false
		}
	}
	return true
}

// keepNonEmpty drops empty exam records in strict mode and keeps everything
// otherwise, so lax output preserves the all-missing rows the caller asked
// to retain.
func keepNonEmpty(exams []model.ExamDoseRecord, strict bool) []model.ExamDoseRecord {
	if !strict {
		return exams
	}
	kept := make([]model.ExamDoseRecord, 0, len(exams))
	for i := range exams {
		if !exams[i].Empty() {
			kept = append(kept, exams[i])
		}
	}
	return kept
}
