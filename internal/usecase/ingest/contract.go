package ingest

import (
	"context"

	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

// Upserter embeds and stores a single document.
type Upserter interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, doc *domdoc.Document) (created bool, err error)
}
