// Package batch normalizes many inputs concurrently against one registry.
//
// The registry and the Normalizer are read-only after construction, so one
// instance serves every worker. Each job runs a single decode and
// normalization call with its own traversal state.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ayangd/jsonapi-factory/internal/decode"
	"github.com/ayangd/jsonapi-factory/internal/document"
	"github.com/ayangd/jsonapi-factory/internal/normalize"
)

// Job is one input to normalize.
type Job struct {
	// Name identifies the input in errors and logs, usually its path.
	Name string
	Data []byte
}

// Result pairs a job with its document.
type Result struct {
	Job      Job
	Document *document.Document
}

// Func produces the document for one job.
type Func func(ctx context.Context, job Job) (*document.Document, error)

// Config controls the worker pool.
type Config struct {
	// Workers is the maximum number of concurrent jobs.
	// Defaults to GOMAXPROCS if zero.
	Workers int

	Logger *slog.Logger
}

// NormalizeFunc decodes a job's data with dec and normalizes it with n.
func NormalizeFunc(dec *decode.Decoder, n *normalize.Normalizer) Func {
	return func(_ context.Context, job Job) (*document.Document, error) {
		input, err := dec.Decode(job.Data)
		if err != nil {
			return nil, err
		}

		return n.Normalize(input)
	}
}

// Run executes fn for every job with at most cfg.Workers running at once.
// Results come back in job order. The first failure cancels the jobs that
// have not started and is returned wrapped with the job name.
func Run(ctx context.Context, jobs []Job, fn Func, cfg Config) ([]Result, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s: panic during normalization: %v", job.Name, r)
				}
			}()

			if err := gctx.Err(); err != nil {
				return err
			}

			doc, err := fn(gctx, job)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}

			if doc == nil {
				return fmt.Errorf("%s: no document produced", job.Name)
			}

			results[i] = Result{Job: job, Document: doc}

			logger.Debug("normalized input",
				slog.String("input", job.Name),
				slog.Int("included", len(doc.Included)),
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
