package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/logger"
)

// Purpose tells document embeddings from query embeddings in logs.
type Purpose string

const (
	// PurposeDocument marks embeddings written to the index.
	PurposeDocument Purpose = "document"
	// PurposeQuery marks embeddings used as a KNN probe.
	PurposeQuery Purpose = "query"
)

// InstrumentedEmbedder checks the provider's vector length and logs each call.
// Transport metrics are recorded in transport/openai; this layer owns the dimension contract.
type InstrumentedEmbedder struct {
	inner   domain.Embedder
	purpose Purpose
	dim     int
	logger  *zap.Logger
}

// NewInstrumentedEmbedder wraps inner. dim <= 0 disables the length check.
func NewInstrumentedEmbedder(inner domain.Embedder, purpose Purpose, dim int, l *zap.Logger) *InstrumentedEmbedder {
	if l == nil {
		l = zap.NewNop()
	}
	return &InstrumentedEmbedder{inner: inner, purpose: purpose, dim: dim, logger: l}
}

// Embed delegates to the inner embedder. A vector of the wrong length is an
// unusable payload and fails with ErrEmbeddingFailure.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := p.log(ctx)
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)
	duration := time.Since(start)
	if err != nil {
		log.Warn("embedding failed",
			zap.String("purpose", string(p.purpose)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed %s: %w", p.purpose, err)
	}

	if p.dim > 0 && len(result.Embedding) != p.dim {
		dimErr := &domain.EmbeddingError{
			Err: fmt.Errorf("provider returned %d dimensions, expected %d", len(result.Embedding), p.dim),
		}
		log.Error("embedding dimension mismatch",
			zap.String("purpose", string(p.purpose)),
			zap.Int("got", len(result.Embedding)),
			zap.Int("want", p.dim),
		)
		return domain.EmbeddingResult{}, dimErr
	}

	log.Debug("embedding completed",
		zap.String("purpose", string(p.purpose)),
		zap.Int("text_len", len(text)),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// log prefers the request-scoped logger so embedding lines carry the request id.
func (p *InstrumentedEmbedder) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, p.logger)
}
