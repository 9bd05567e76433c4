// Package index provisions the document search index.
package index

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/repository/storeerr"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
}

// Repo manages the single FT index covering the document key prefix.
type Repo struct {
	store  store
	schema domain.IndexSchema
	logger *zap.Logger
	group  singleflight.Group
}

// New creates an index repository.
func New(s store, schema domain.IndexSchema, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{store: s, schema: schema, logger: logger}
}

// Definition renders the schema as an FT.CREATE definition: TEXT + HNSW/FLOAT32/COSINE vector.
func (r *Repo) Definition() (*db.IndexDefinition, error) {
	def, err := db.NewIndex(r.schema.Name).
		Prefix(r.schema.KeyPrefix).
		Text(r.schema.TextField).
		VectorHNSW(r.schema.VectorField, r.schema.Dim, db.DistanceCosine, r.schema.M, r.schema.EFConstruction).
		Build()
	if err != nil {
		return nil, domain.NewInvalidRequest("index", err.Error())
	}
	return def, nil
}

// EnsureIndex probes the index and creates it when absent. Concurrent callers share one probe.
// A create that races with another creator and reports "already exists" counts as success.
// The shared probe ignores the first caller's cancellation and is bounded by the store
// timeouts; a cancelled caller stops waiting without failing the others.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	ch := r.group.DoChan(r.schema.Name, func() (any, error) {
		return nil, r.ensure(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Repo) ensure(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.schema.Name)
	if err != nil {
		return storeerr.Map("probe index "+r.schema.Name, err)
	}
	if exists {
		return nil
	}

	def, err := r.Definition()
	if err != nil {
		return err
	}

	err = r.store.CreateIndex(ctx, def)
	switch {
	case err == nil:
		r.logger.Info("Search index created",
			zap.String("index", def.Name),
			zap.String("prefix", def.Prefix),
			zap.Int("dim", r.schema.Dim),
		)
		return nil
	case errors.Is(err, db.ErrIndexExists):
		r.logger.Debug("Search index created concurrently", zap.String("index", def.Name))
		return nil
	default:
		return &domain.IndexProvisioningError{Index: def.Name, Err: err}
	}
}

// Drop removes the index (documents stay). Reports whether an index was dropped.
func (r *Repo) Drop(ctx context.Context) (bool, error) {
	err := r.store.DropIndex(ctx, r.schema.Name)
	if errors.Is(err, db.ErrIndexNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeerr.Map("drop index "+r.schema.Name, err)
	}
	r.logger.Info("Search index dropped", zap.String("index", r.schema.Name))
	return true, nil
}

// Describe reports whether the index exists and, if so, its FT.INFO summary.
func (r *Repo) Describe(ctx context.Context) (domain.IndexStatus, error) {
	status := domain.IndexStatus{Name: r.schema.Name}

	info, err := r.store.IndexInfo(ctx, r.schema.Name)
	if errors.Is(err, db.ErrIndexNotFound) {
		return status, nil
	}
	if err != nil {
		return status, storeerr.Map(fmt.Sprintf("describe index %s", r.schema.Name), err)
	}

	status.Exists = true
	status.NumDocs = info.NumDocs
	status.Indexing = info.Indexing
	status.Percent = info.PercentIndex
	status.Attributes = info.Attributes
	return status, nil
}
