package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of embedding and storing one document of a batch.
type Result struct {
	id      string
	status  ItemStatus
	created bool
	err     error
}

// NewOK creates a successful result; created reports whether the key was new.
func NewOK(id string, created bool) Result { return Result{id: id, status: StatusOK, created: created} }

// NewError creates a failed result.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the document identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Created reports whether the upsert wrote a new key rather than overwriting one.
func (r Result) Created() bool { return r.created }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts outcomes across a batch.
type Summary struct {
	Total   int
	Created int
	Updated int
	Failed  int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.status == StatusError:
			s.Failed++
		case r.created:
			s.Created++
		default:
			s.Updated++
		}
	}
	return s
}
