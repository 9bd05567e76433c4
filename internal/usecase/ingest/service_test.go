package ingest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/vecrag/internal/domain"
	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

func TestIngest_AllOK(t *testing.T) {
	up := &mockUpserter{upsertFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
		return doc.ID() != "2", nil
	}}
	before := testutil.ToFloat64(metrics.IngestDocumentsTotal.WithLabelValues("created"))

	results := New(up, 2, nil).Ingest(context.Background(), docs(t, "1", "2", "3"), nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, id := range []string{"1", "2", "3"} {
		if results[i].ID() != id || results[i].Status() != dombatch.StatusOK {
			t.Errorf("results[%d] = %s/%s", i, results[i].ID(), results[i].Status())
		}
	}
	if results[1].Created() {
		t.Error("item 2 should report an update")
	}
	sum := dombatch.Summarize(results)
	if sum.Created != 2 || sum.Updated != 1 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if got := testutil.ToFloat64(metrics.IngestDocumentsTotal.WithLabelValues("created")) - before; got != 2 {
		t.Errorf("created counter delta = %f, want 2", got)
	}
}

func TestIngest_ItemFailureDoesNotAbortSiblings(t *testing.T) {
	up := &mockUpserter{upsertFn: func(_ context.Context, doc *domdoc.Document) (bool, error) {
		if doc.ID() == "bad" {
			return false, &domain.EmbeddingError{StatusCode: 500}
		}
		return true, nil
	}}

	results := New(up, 4, nil).Ingest(context.Background(), docs(t, "a", "bad", "c"), nil)

	if results[1].Status() != dombatch.StatusError || !errors.Is(results[1].Err(), domain.ErrEmbeddingFailure) {
		t.Errorf("bad item = %s/%v", results[1].Status(), results[1].Err())
	}
	if results[0].Status() != dombatch.StatusOK || results[2].Status() != dombatch.StatusOK {
		t.Error("siblings of a failed item must still succeed")
	}
}

func TestIngest_RejectsInvalidAndDuplicateIDs(t *testing.T) {
	up := &mockUpserter{}
	results := New(up, 2, nil).Ingest(context.Background(), docs(t, "x", "", "x", "has space"), nil)

	wantErr := []bool{false, true, true, true}
	for i, want := range wantErr {
		isErr := results[i].Status() == dombatch.StatusError
		if isErr != want {
			t.Errorf("results[%d] error = %v, want %v", i, isErr, want)
		}
		if want && !errors.Is(results[i].Err(), domain.ErrInvalidRequest) {
			t.Errorf("results[%d] err = %v, want ErrInvalidRequest", i, results[i].Err())
		}
	}
	if len(up.upserts) != 1 || up.upserts[0] != "x" {
		t.Errorf("upserts = %v, want only the first x", up.upserts)
	}
}

func TestIngest_EnsureIndexFailureFailsAll(t *testing.T) {
	up := &mockUpserter{ensureFn: func(context.Context) error {
		return &domain.IndexProvisioningError{Index: "idx", Err: errors.New("bad schema")}
	}}
	var progressed int
	results := New(up, 2, nil).Ingest(context.Background(), docs(t, "a", "b"), func(dombatch.Result) { progressed++ })

	for _, r := range results {
		if !errors.Is(r.Err(), domain.ErrIndexProvisioning) {
			t.Errorf("%s: expected ErrIndexProvisioning, got %v", r.ID(), r.Err())
		}
	}
	if len(up.upserts) != 0 {
		t.Error("no upsert may run without an index")
	}
	if progressed != 2 {
		t.Errorf("progress calls = %d, want 2", progressed)
	}
}

func TestIngest_BatchTooLarge(t *testing.T) {
	up := &mockUpserter{}
	results := New(up, 2, nil).WithMaxBatchSize(2).Ingest(context.Background(), docs(t, "a", "b", "c"), nil)
	for _, r := range results {
		if !errors.Is(r.Err(), domain.ErrInvalidRequest) {
			t.Errorf("%s: expected ErrInvalidRequest, got %v", r.ID(), r.Err())
		}
	}
	if len(up.upserts) != 0 {
		t.Error("oversized batch must not touch the store")
	}
}

func TestIngest_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	up := &mockUpserter{upsertFn: func(context.Context, *domdoc.Document) (bool, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return true, nil
	}}

	var progressed atomic.Int32
	results := New(up, 3, nil).Ingest(context.Background(),
		docs(t, "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"),
		func(dombatch.Result) { progressed.Add(1) })

	if got := peak.Load(); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
	if progressed.Load() != 10 || len(results) != 10 {
		t.Errorf("progress=%d results=%d", progressed.Load(), len(results))
	}
}

func TestIngest_Empty(t *testing.T) {
	if got := New(&mockUpserter{}, 0, nil).Ingest(context.Background(), nil, nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}
