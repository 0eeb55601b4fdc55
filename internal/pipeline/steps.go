package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/glhrmbg/ctdose/internal/aggregate"
	"github.com/glhrmbg/ctdose/internal/dicomio"
	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/record"
	"github.com/glhrmbg/ctdose/internal/walker"
)

// DecodeStep reads the source file and populates the extraction with the
// content tree and the flat attribute set. Files that are not dose
// structured reports are discarded, not failed; mixed directories are the
// normal case, not an exception.
type DecodeStep struct {
	decoder *dicomio.Decoder
	logger  *slog.Logger
}

// NewDecodeStep creates a DecodeStep using the given decoder.
func NewDecodeStep(decoder *dicomio.Decoder, logger *slog.Logger) *DecodeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecodeStep{decoder: decoder, logger: logger}
}

// Name returns the step name.
func (s *DecodeStep) Name() string { return "decode" }

// Do decodes the file at ex.Path.
func (s *DecodeStep) Do(_ context.Context, ex *model.Extraction) error {
	tree, attrs, err := s.decoder.DecodeFile(ex.Path)
	if err != nil {
		if errors.Is(err, dicomio.ErrNotDICOM) || errors.Is(err, dicomio.ErrNotStructuredReport) {
			s.logger.Debug("skipping non-report file", "path", ex.Path, "reason", err)
			ex.Discarded = true
			return nil
		}
		return err
	}
	ex.Tree = tree
	ex.Attributes = attrs
	return nil
}

// DoseStep walks the content tree and aggregates the classified
// measurements into an exam dose record. The tree is released afterwards
// so a large batch never holds more than the in-flight documents' trees.
type DoseStep struct {
	walker     *walker.Walker
	aggregator *aggregate.Aggregator
	logger     *slog.Logger
}

// NewDoseStep creates a DoseStep.
func NewDoseStep(w *walker.Walker, a *aggregate.Aggregator, logger *slog.Logger) *DoseStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DoseStep{walker: w, aggregator: a, logger: logger}
}

// Name returns the step name.
func (s *DoseStep) Name() string { return "dose" }

// Do classifies and aggregates the decoded tree.
func (s *DoseStep) Do(_ context.Context, ex *model.Extraction) error {
	classified, err := s.walker.Collect(ex.Tree)
	if err != nil {
		var serr *walker.StructuralError
		if errors.As(err, &serr) {
			s.logger.Warn("malformed report structure", "path", ex.Path, "error", serr)
			ex.Discarded = true
			return nil
		}
		return err
	}

	ex.Dose = s.aggregator.Aggregate(classified)
	ex.Tree = nil
	return nil
}

// BuildStep merges the aggregated dose data with the document attributes
// into the final consolidated record.
type BuildStep struct {
	builder *record.Builder
}

// NewBuildStep creates a BuildStep.
func NewBuildStep(builder *record.Builder) *BuildStep {
	return &BuildStep{builder: builder}
}

// Name returns the step name.
func (s *BuildStep) Name() string { return "build" }

// Do builds the consolidated record. A nil result means the builder
// discarded the document (strict mode, no payload).
func (s *BuildStep) Do(_ context.Context, ex *model.Extraction) error {
	var exams []model.ExamDoseRecord
	if ex.Dose != nil {
		exams = append(exams, *ex.Dose)
	}

	rec := s.builder.Build(ex.Attributes, exams)
	if rec == nil {
		ex.Discarded = true
		return nil
	}
	rec.SourceFile = ex.Path
	ex.Record = rec
	return nil
}
