// Package document stores documents as hashes under the index key prefix.
package document

import (
	"context"
	"errors"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/repository/storeerr"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) (bool, error)
}

// Repo implements document persistence.
type Repo struct {
	store  store
	schema domain.IndexSchema
}

// New creates a document repository.
func New(s store, schema domain.IndexSchema) *Repo {
	return &Repo{store: s, schema: schema}
}

// Upsert writes text and vector to <prefix><id> in one command and reports whether the key was new.
// A vector whose length differs from the index dimension is rejected before any write.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	if err := domain.CheckDimension("vector", doc.Vector(), r.schema.Dim); err != nil {
		return false, err
	}

	created, err := r.store.HSet(ctx, r.schema.Key(doc.ID()), toHash(r.schema, doc))
	if err != nil {
		return false, storeerr.Map("upsert "+doc.ID(), err)
	}
	return created, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	m, err := r.store.HGetAll(ctx, r.schema.Key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, storeerr.Map("get "+id, err)
	}
	return fromHash(r.schema, id, m)
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	existed, err := r.store.Del(ctx, r.schema.Key(id))
	if err != nil {
		return storeerr.Map("delete "+id, err)
	}
	if !existed {
		return domain.ErrDocumentNotFound
	}
	return nil
}
