package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	searchrepo "github.com/kailas-cloud/vecrag/internal/repository/search"
	"github.com/kailas-cloud/vecrag/internal/vector"
)

const scenarioDim = 1536

// cosineStore answers KNN queries by brute force over an in-memory corpus.
// Entries come back unsorted and untruncated so ranking is left to the caller.
type cosineStore struct {
	schema  domain.IndexSchema
	docs    map[string][]float32
	queries []*db.KNNQuery
}

func (s *cosineStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	s.queries = append(s.queries, q)
	qv, err := vector.Decode(q.Blob)
	if err != nil {
		return nil, err
	}
	res := &db.SearchResult{}
	for id, v := range s.docs {
		res.Entries = append(res.Entries, db.SearchEntry{
			Key:   s.schema.Key(id),
			Text:  "doc " + id,
			Score: cosineDistance(qv, v),
		})
	}
	res.Total = len(res.Entries)
	return res, nil
}

func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

func basis(i int) []float32 {
	v := make([]float32, scenarioDim)
	v[i] = 1
	// a shared low-level component keeps every pair non-orthogonal
	for j := range v {
		v[j] += 0.001
	}
	return v
}

func TestSearch_FiveDocumentScenario(t *testing.T) {
	schema := domain.IndexSchema{
		Name: "idx:documents", KeyPrefix: "doc:", TextField: "text_field",
		VectorField: "vector_field", ScoreAlias: "score", Dim: scenarioDim, Dialect: 2,
	}
	store := &cosineStore{schema: schema, docs: map[string][]float32{
		"1": basis(10), "2": basis(20), "3": basis(30), "4": basis(40), "5": basis(50),
	}}

	// closest to "2", then "4"
	query := make([]float32, scenarioDim)
	for i, x := range basis(20) {
		query[i] = x + 0.5*basis(40)[i]
	}
	emb := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{Embedding: query}, nil
	}}

	svc := New(emb, searchrepo.New(store, schema), 0, nil)
	hits, err := svc.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID() != "2" || hits[1].ID() != "4" {
		t.Fatalf("ids = [%s %s], want [2 4]", hits[0].ID(), hits[1].ID())
	}
	if !(hits[0].Score() < hits[1].Score()) {
		t.Errorf("score[2]=%f must be below score[4]=%f", hits[0].Score(), hits[1].Score())
	}

	if len(store.queries) != 1 {
		t.Fatalf("expected 1 store query, got %d", len(store.queries))
	}
	q := store.queries[0]
	if q.K != 2 || len(q.Blob) != 4*scenarioDim {
		t.Errorf("query K=%d blob=%d bytes", q.K, len(q.Blob))
	}
}

func TestSearch_DimensionMismatchIsInvalidRequest(t *testing.T) {
	schema := domain.IndexSchema{
		Name: "idx", KeyPrefix: "doc:", TextField: "t", VectorField: "v", ScoreAlias: "score", Dim: scenarioDim,
	}
	store := &cosineStore{schema: schema}
	svc := New(&mockEmbedder{}, searchrepo.New(store, schema), 0, nil)

	_, err := svc.Search(context.Background(), "q", 2)
	if err == nil || len(store.queries) != 0 {
		t.Fatalf("expected rejection before the store, err=%v queries=%d", err, len(store.queries))
	}
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}
