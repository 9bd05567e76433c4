package answer

import (
	"context"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
)

// Retriever finds the documents a question is answered from.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]search.Hit, error)
}

// Generator produces the answer text from chat turns.
type Generator interface {
	Generate(ctx context.Context, turns []domain.Turn) (string, error)
}
