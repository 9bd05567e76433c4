// Package ingest embeds and stores document batches with per-item results.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vecrag/internal/domain"
	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

// DefaultConcurrency bounds in-flight embed+upsert pairs when none is configured.
const DefaultConcurrency = 4

// MaxBatchSize is the maximum number of items per Ingest call.
const MaxBatchSize = 1000

// ProgressFunc is called once per finished item, from the worker goroutine.
type ProgressFunc func(r dombatch.Result)

// Service handles batch ingest.
type Service struct {
	docs         Upserter
	concurrency  int
	maxBatchSize int
	logger       *zap.Logger
}

// New creates an ingest service.
func New(docs Upserter, concurrency int, l *zap.Logger) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{docs: docs, concurrency: concurrency, maxBatchSize: MaxBatchSize, logger: l}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Ingest ensures the index, then embeds and stores items concurrently.
// Results follow input order; one item's failure never aborts its siblings.
// progress may be nil.
func (s *Service) Ingest(ctx context.Context, items []domdoc.Document, progress ProgressFunc) []dombatch.Result {
	results := make([]dombatch.Result, len(items))
	if len(items) == 0 {
		return results
	}

	if len(items) > s.maxBatchSize {
		err := domain.NewInvalidRequest("documents", fmt.Sprintf("batch size exceeds %d", s.maxBatchSize))
		return failAll(items, results, err, progress)
	}

	if err := s.docs.EnsureIndex(ctx); err != nil {
		return failAll(items, results, err, progress)
	}

	var mu sync.Mutex
	report := func(i int, r dombatch.Result) {
		results[i] = r
		record(r)
		if progress != nil {
			mu.Lock()
			progress(r)
			mu.Unlock()
		}
	}

	seen := make(map[string]int, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range items {
		id := items[i].ID()
		if err := domdoc.ValidateID(id); err != nil {
			report(i, dombatch.NewError(id, err))
			continue
		}
		if first, dup := seen[id]; dup {
			report(i, dombatch.NewError(id, domain.NewInvalidRequest("id",
				fmt.Sprintf("duplicate of item %d in the same batch", first))))
			continue
		}
		seen[id] = i

		g.Go(func() error {
			created, err := s.docs.Upsert(gctx, &items[i])
			if err != nil {
				s.logger.Warn("ingest item failed", zap.String("id", id), zap.Error(err))
				report(i, dombatch.NewError(id, err))
				return nil
			}
			report(i, dombatch.NewOK(id, created))
			return nil
		})
	}
	_ = g.Wait()

	sum := dombatch.Summarize(results)
	s.logger.Info("ingest finished",
		zap.Int("total", sum.Total),
		zap.Int("created", sum.Created),
		zap.Int("updated", sum.Updated),
		zap.Int("failed", sum.Failed),
	)
	return results
}

func failAll(items []domdoc.Document, results []dombatch.Result, err error, progress ProgressFunc) []dombatch.Result {
	for i := range items {
		results[i] = dombatch.NewError(items[i].ID(), err)
		record(results[i])
		if progress != nil {
			progress(results[i])
		}
	}
	return results
}

func record(r dombatch.Result) {
	status := "error"
	switch {
	case r.Status() != dombatch.StatusOK:
	case r.Created():
		status = "created"
	default:
		status = "updated"
	}
	metrics.IngestDocumentsTotal.WithLabelValues(status).Inc()
}
