package chi

import (
	"context"

	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
	answeruc "github.com/kailas-cloud/vecrag/internal/usecase/answer"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
)

type mockDocuments struct {
	upsertFn func(ctx context.Context, doc *domdoc.Document) (bool, error)
	getFn    func(ctx context.Context, id string) (domdoc.Document, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockDocuments) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc)
	}
	return true, nil
}

func (m *mockDocuments) Get(ctx context.Context, id string) (domdoc.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domdoc.Reconstruct(id, "text", nil), nil
}

func (m *mockDocuments) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockIngest struct {
	ingestFn func(ctx context.Context, docs []domdoc.Document) []dombatch.Result
}

func (m *mockIngest) Ingest(ctx context.Context, docs []domdoc.Document, _ ingestuc.ProgressFunc) []dombatch.Result {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, docs)
	}
	out := make([]dombatch.Result, len(docs))
	for i, d := range docs {
		out[i] = dombatch.NewOK(d.ID(), true)
	}
	return out
}

type mockSearch struct {
	searchFn func(ctx context.Context, query string, k int) ([]search.Hit, error)
}

func (m *mockSearch) Search(ctx context.Context, query string, k int) ([]search.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, k)
	}
	return nil, nil
}

type mockAnswer struct {
	askFn func(ctx context.Context, question string, k int) (answeruc.Answer, error)
}

func (m *mockAnswer) Ask(ctx context.Context, question string, k int) (answeruc.Answer, error) {
	if m.askFn != nil {
		return m.askFn(ctx, question, k)
	}
	return answeruc.Answer{Text: "ok"}, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testDeps struct {
	docs   *mockDocuments
	ingest *mockIngest
	search *mockSearch
	answer *mockAnswer
	health *mockHealth
}

func newTestServer(opts Options) (*Server, *testDeps) {
	d := &testDeps{
		docs:   &mockDocuments{},
		ingest: &mockIngest{},
		search: &mockSearch{},
		answer: &mockAnswer{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{healthuc.ComponentStore: healthuc.CheckOK},
		}},
	}
	return NewServer(d.docs, d.ingest, d.search, d.answer, d.health, opts, zap.NewNop()), d
}
