package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
	answeruc "github.com/kailas-cloud/vecrag/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

// DocumentService writes, reads and deletes single documents.
type DocumentService interface {
	Upsert(ctx context.Context, doc *domdoc.Document) (created bool, err error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
}

// IngestService stores document batches.
type IngestService interface {
	Ingest(ctx context.Context, docs []domdoc.Document, progress ingestuc.ProgressFunc) []dombatch.Result
}

// SearchService runs retrieval.
type SearchService interface {
	Search(ctx context.Context, query string, k int) ([]search.Hit, error)
}

// AnswerService runs retrieval-augmented generation.
type AnswerService interface {
	Ask(ctx context.Context, question string, k int) (answeruc.Answer, error)
}

// HealthService aggregates dependency checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
