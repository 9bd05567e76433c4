package chi

import (
	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
)

// ErrorCode is the machine-readable error class in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest        ErrorCode = "bad_request"
	CodeUnauthorized      ErrorCode = "unauthorized"
	CodeValidationFailed  ErrorCode = "validation_failed"
	CodeDocumentNotFound  ErrorCode = "document_not_found"
	CodeEmbeddingFailure  ErrorCode = "embedding_failure"
	CodeGenerationFailure ErrorCode = "generation_failure"
	CodeMalformedReply    ErrorCode = "malformed_reply"
	CodeStoreUnavailable  ErrorCode = "store_unavailable"
	CodeIndexProvisioning ErrorCode = "index_provisioning_failed"
	CodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type upsertDocumentRequest struct {
	Text string `json:"text"`
}

type documentResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Dim  int    `json:"dimensions,omitempty"`
}

type batchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type batchUpsertRequest struct {
	Documents []batchItem `json:"documents"`
}

type batchResultItem struct {
	ID      string     `json:"id"`
	Status  string     `json:"status"`
	Created bool       `json:"created,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is a per-item error inside a batch reply.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type batchUpsertResponse struct {
	Items     []batchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

type searchRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"`
}

// hitResponse leaves score null when the store returned none; JSON has no NaN.
type hitResponse struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Score *float64 `json:"score"`
}

type searchResponse struct {
	Items []hitResponse `json:"items"`
	Total int           `json:"total"`
}

type answerRequest struct {
	Question string `json:"question"`
	K        *int   `json:"k,omitempty"`
}

type answerResponse struct {
	Answer  string        `json:"answer"`
	Sources []hitResponse `json:"sources"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToResponse(doc *domdoc.Document) documentResponse {
	return documentResponse{ID: doc.ID(), Text: doc.Text(), Dim: len(doc.Vector())}
}

func hitsToResponse(hits []search.Hit) []hitResponse {
	out := make([]hitResponse, 0, len(hits))
	for _, h := range hits {
		item := hitResponse{ID: h.ID(), Text: h.Text()}
		if h.HasScore() {
			score := h.Score()
			item.Score = &score
		}
		out = append(out, item)
	}
	return out
}

func batchResultToResponse(r dombatch.Result) batchResultItem {
	item := batchResultItem{ID: r.ID(), Status: string(r.Status()), Created: r.Created()}
	if r.Status() == dombatch.StatusError {
		_, code, msg := classify(r.Err())
		item.Error = &ErrorBody{Code: code, Message: msg}
	}
	return item
}
