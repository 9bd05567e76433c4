package retrieval

import (
	"context"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Searcher runs a KNN query for a vector.
type Searcher interface {
	KNN(ctx context.Context, vec []float32, k int) ([]search.Hit, error)
}
