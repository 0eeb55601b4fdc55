package pipeline

import (
	"context"
	"log/slog"

	"github.com/glhrmbg/ctdose/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the extraction
// state accumulated by previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., per-step metrics)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the extraction to
	// advance. Returns an error if the step fails critically; expected
	// rejections (not a dose report, strict-mode discard) should mark
	// the extraction and return nil.
	Do(ctx context.Context, ex *model.Extraction) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence on one extraction.
// It respects context cancellation between steps and stops early when a
// step discards the document or records an error.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts. This allows
// graceful cleanup between steps while still respecting cancellation.
func (p *Pipeline) Execute(ctx context.Context, ex *model.Extraction) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"path", ex.Path,
				"reason", ctx.Err(),
			)
			ex.Err = ctx.Err()
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"path", ex.Path,
		)

		if err := step.Do(ctx, ex); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"path", ex.Path,
				"error", err,
			)
			ex.Err = err
			return err
		}

		// A discarded document skips the remaining steps; it is not an
		// error, just not a record.
		if ex.Discarded {
			p.logger.Debug("document discarded",
				"step", step.Name(),
				"path", ex.Path,
			)
			return nil
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
