package document

import (
	"context"
	"fmt"
	"sync/atomic"

	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

// Service handles document writes with automatic vectorization, plus reads and deletes.
type Service struct {
	repo    Repository
	index   IndexEnsurer
	embed   Embedder
	dim     int
	ensured atomic.Bool
}

// New creates a document service. dim is the index vector dimension.
func New(repo Repository, index IndexEnsurer, embed Embedder, dim int) *Service {
	return &Service{repo: repo, index: index, embed: embed, dim: dim}
}

// EnsureIndex provisions the index once per Service; later calls are free after a success.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if s.ensured.Load() {
		return nil
	}
	if err := s.index.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	s.ensured.Store(true)
	return nil
}

// Upsert embeds the document text and writes text and vector under one key.
// Returns true if the document was created, false if it replaced an existing one.
func (s *Service) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	if err := s.EnsureIndex(ctx); err != nil {
		return false, err
	}

	result, err := s.embed.Embed(ctx, doc.Text())
	if err != nil {
		return false, fmt.Errorf("vectorize document %s: %w", doc.ID(), err)
	}

	withVec, err := doc.WithVector(result.Embedding, s.dim)
	if err != nil {
		return false, err
	}

	created, err := s.repo.Upsert(ctx, &withVec)
	if err != nil {
		return false, fmt.Errorf("upsert document %s: %w", doc.ID(), err)
	}
	return created, nil
}

// Get retrieves a document by id.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if err := domdoc.ValidateID(id); err != nil {
		return domdoc.Document{}, err
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := domdoc.ValidateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
