// Package retrieval turns a text query into a ranked set of stored documents.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
	"github.com/kailas-cloud/vecrag/internal/logger"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

// Service embeds a query and asks the store for its nearest documents.
type Service struct {
	embed  Embedder
	repo   Searcher
	maxK   int
	logger *zap.Logger
}

// New creates a retrieval service. maxK <= 0 leaves k unbounded.
func New(embed Embedder, repo Searcher, maxK int, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{embed: embed, repo: repo, maxK: maxK, logger: l}
}

// Search returns at most k hits ordered by ascending distance; unscored hits come last.
// k is validated before any network call. An empty result is not an error.
func (s *Service) Search(ctx context.Context, query string, k int) ([]search.Hit, error) {
	if k <= 0 {
		return nil, domain.NewInvalidRequest("k", fmt.Sprintf("must be positive, got %d", k))
	}
	if s.maxK > 0 && k > s.maxK {
		return nil, domain.NewInvalidRequest("k", fmt.Sprintf("must be at most %d, got %d", s.maxK, k))
	}

	start := time.Now()
	hits, err := s.search(ctx, query, k)
	status := "success"
	if err != nil {
		status = statusOf(err)
	}
	metrics.SearchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	ranked := search.Rank(hits, k)
	unscored := 0
	for _, h := range ranked {
		if !h.HasScore() {
			unscored++
		}
	}
	metrics.SearchHitsTotal.Add(float64(len(ranked)))
	metrics.SearchUnscoredHitsTotal.Add(float64(unscored))

	logger.FromContextOr(ctx, s.logger).Debug("search completed",
		zap.Int("k", k),
		zap.Int("hits", len(ranked)),
		zap.Int("unscored", unscored),
		zap.Duration("duration", time.Since(start)),
	)
	return ranked, nil
}

func (s *Service) search(ctx context.Context, query string, k int) ([]search.Hit, error) {
	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	hits, err := s.repo.KNN(ctx, emb.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return hits, nil
}

func statusOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmbeddingFailure):
		return "embedding_error"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, domain.ErrMalformedReply):
		return "malformed_reply"
	default:
		return "store_error"
	}
}
