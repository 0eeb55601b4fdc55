package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/glhrmbg/ctdose/internal/model"
)

// BatchProcessor handles concurrent processing of multiple report files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-document execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	// We use a factory to ensure each document gets a fresh pipeline
	// instance.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of documents processed at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed extractions in input order.
	// Access is synchronized via mutex.
	results []*model.Extraction
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent documents.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each document to create a
// fresh pipeline instance. This ensures that pipeline state doesn't leak
// between documents.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch extracts dose records from multiple files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each file gets its own goroutine, but only 'concurrency' goroutines run
// simultaneously.
//
// Returns all extractions in input order, including failed and discarded
// ones; per-document failures are recorded in the Extraction rather than
// aborting the batch. The error return indicates cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.Extraction, error) {
	bp.logger.Info("starting batch extraction",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate the results slice to maintain input order.
	bp.results = make([]*model.Extraction, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			ex := model.NewExtraction(path)
			err := bp.pipelineFactory().Execute(ctx, ex)

			// Store the extraction regardless of error; it carries the
			// error information itself.
			bp.mu.Lock()
			bp.results[i] = ex
			bp.mu.Unlock()

			if err != nil && ctx.Err() == nil {
				bp.logger.Warn("extraction failed",
					"path", path,
					"error", err,
				)
				// Per-document errors never abort the batch.
				return nil
			}
			return nil
		})
	}

	err := g.Wait()

	extracted := 0
	for _, ex := range bp.results {
		if ex != nil && ex.Record != nil {
			extracted++
		}
	}
	bp.logger.Info("batch extraction complete",
		"total_files", len(paths),
		"extracted", extracted,
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}
