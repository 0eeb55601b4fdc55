package pipeline

import (
	"log/slog"

	"github.com/glhrmbg/ctdose/internal/aggregate"
	"github.com/glhrmbg/ctdose/internal/model"
	"github.com/glhrmbg/ctdose/internal/record"
	"github.com/glhrmbg/ctdose/internal/walker"
)

// ProcessOptions configures ProcessDocument.
type ProcessOptions struct {
	// MaxDepth overrides the traversal depth ceiling when positive.
	MaxDepth int

	// Strict discards documents that yield no dose payload instead of
	// keeping a demographics-only record.
	Strict bool

	// Logger receives aggregation and builder warnings. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// ProcessDocument runs the extraction core on an already decoded document:
// classify the tree, aggregate the measurements, and merge with the
// attribute set into a consolidated record. A nil record with a nil error
// means the document was discarded under strict mode.
//
// This is the seam for callers that obtain trees without touching the
// filesystem, such as tests and future network receivers; the file-based
// path goes through Pipeline with a DecodeStep instead.
func ProcessDocument(tree *model.ContentNode, attrs map[string]string, opts ProcessOptions) (*model.ConsolidatedRecord, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var walkOpts []walker.Option
	if opts.MaxDepth > 0 {
		walkOpts = append(walkOpts, walker.WithMaxDepth(opts.MaxDepth))
	}
	classified, err := walker.New(walkOpts...).Collect(tree)
	if err != nil {
		return nil, err
	}

	dose := aggregate.New(aggregate.WithLogger(logger)).Aggregate(classified)

	builder := record.New(
		record.WithStrict(opts.Strict),
		record.WithLogger(logger),
	)
	return builder.Build(attrs, []model.ExamDoseRecord{*dose}), nil
}
