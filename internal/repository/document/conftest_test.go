package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

const testDim = 4

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn    func(ctx context.Context, key string, fields map[string]string) (bool, error)
	hgetAllFn func(ctx context.Context, key string) (map[string]string, error)
	delFn     func(ctx context.Context, key string) (bool, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) (bool, error) {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return true, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) (bool, error) {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return true, nil
}

func testSchema() domain.IndexSchema {
	return domain.IndexSchema{
		Name:        "idx:documents",
		KeyPrefix:   "doc:",
		TextField:   "text_field",
		VectorField: "vector_field",
		ScoreAlias:  "score",
		Dim:         testDim,
	}
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testSchema()), ms
}

func testDocument(t *testing.T) domdoc.Document {
	t.Helper()
	doc, err := domdoc.New("2", "I spent the afternoon tuning my dirt-bike suspension.")
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	doc, err = doc.WithVector([]float32{1, 0, -0.5, 2}, testDim)
	if err != nil {
		t.Fatalf("with vector: %v", err)
	}
	return doc
}
