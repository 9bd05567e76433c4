// Package search runs KNN queries against the document index.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
	"github.com/kailas-cloud/vecrag/internal/repository/storeerr"
	"github.com/kailas-cloud/vecrag/internal/vector"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/retrieval.Searcher.
type Repo struct {
	store  store
	schema domain.IndexSchema
}

// New creates a search repository.
func New(s store, schema domain.IndexSchema) *Repo {
	return &Repo{store: s, schema: schema}
}

// Query builds the FT.SEARCH query for vec without executing it.
func (r *Repo) Query(vec []float32, k int) (*db.KNNQuery, error) {
	if k <= 0 {
		return nil, domain.NewInvalidRequest("k", fmt.Sprintf("must be positive, got %d", k))
	}
	if err := domain.CheckDimension("query vector", vec, r.schema.Dim); err != nil {
		return nil, err
	}

	b := db.NewKNN(r.schema.Name).
		Vector(r.schema.VectorField, vector.Encode(vec)).
		Return(r.schema.TextField).
		K(k)
	if r.schema.ScoreAlias != "" {
		b = b.ScoreAs(r.schema.ScoreAlias)
	}
	if r.schema.Dialect > 0 {
		b = b.Dialect(r.schema.Dialect)
	}
	q, err := b.Build()
	if err != nil {
		return nil, domain.NewInvalidRequest("query", err.Error())
	}
	return q, nil
}

// KNN returns up to k hits for vec in store order. Unresolved scores stay NaN.
func (r *Repo) KNN(ctx context.Context, vec []float32, k int) ([]search.Hit, error) {
	q, err := r.Query(vec, k)
	if err != nil {
		return nil, err
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrInvalidQuery) {
			return nil, domain.NewInvalidRequest("query", err.Error())
		}
		return nil, storeerr.Map("search "+r.schema.Name, err)
	}
	if sr == nil {
		return []search.Hit{}, nil
	}

	hits := make([]search.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, search.NewHit(r.schema.ID(e.Key), e.Text, e.Score))
	}
	return hits, nil
}
