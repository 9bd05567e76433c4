package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/vecrag/internal/domain/batch"
	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
	"github.com/kailas-cloud/vecrag/internal/metrics"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
)

// maxBodyBytes leaves room for JSON escaping around the largest allowed text.
const maxBodyBytes = 4 * domdoc.MaxTextSize

// maxBatchItems caps POST /v1/documents:batch.
const maxBatchItems = 100

// Options configures the HTTP API.
type Options struct {
	APIKeys  []string
	DefaultK int
}

// Server serves the document, search and answer API.
type Server struct {
	documents DocumentService
	ingest    IngestService
	search    SearchService
	answer    AnswerService
	health    HealthService
	opts      Options
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	documents DocumentService,
	ingest IngestService,
	search SearchService,
	answer AnswerService,
	health HealthService,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.DefaultK <= 0 {
		opts.DefaultK = 2
	}
	return &Server{
		documents: documents,
		ingest:    ingest,
		search:    search,
		answer:    answer,
		health:    health,
		opts:      opts,
		logger:    logger,
	}
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(BearerAuthMiddleware(s.opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Put("/documents/{id}", s.UpsertDocument)
		r.Get("/documents/{id}", s.GetDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)
		r.Post("/documents:batch", s.BatchUpsert)
		r.Post("/search", s.Search)
		r.Post("/answer", s.Answer)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// UpsertDocument handles PUT /v1/documents/{id}.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	var req upsertDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc, err := domdoc.New(chi.URLParam(r, "id"), req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	created, err := s.documents.Upsert(r.Context(), &doc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/v1/documents/"+doc.ID())
	}
	writeJSON(w, status, documentToResponse(&doc))
}

// GetDocument handles GET /v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// DeleteDocument handles DELETE /v1/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BatchUpsert handles POST /v1/documents:batch. Item failures are reported per item with 200.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req batchUpsertRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Documents) == 0 || len(req.Documents) > maxBatchItems {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("documents count must be between 1 and %d", maxBatchItems))
		return
	}

	docs := make([]domdoc.Document, 0, len(req.Documents))
	for _, item := range req.Documents {
		if len(item.Text) > domdoc.MaxTextSize {
			writeError(w, http.StatusBadRequest, CodeValidationFailed,
				fmt.Sprintf("document %q: text too large (max %d bytes)", item.ID, domdoc.MaxTextSize))
			return
		}
		// ids are validated per item by ingest so one bad id does not fail the batch
		docs = append(docs, domdoc.Reconstruct(item.ID, item.Text, nil))
	}

	results := s.ingest.Ingest(r.Context(), docs, nil)

	resp := batchUpsertResponse{Items: make([]batchResultItem, len(results))}
	for i, res := range results {
		resp.Items[i] = batchResultToResponse(res)
		if res.Status() == dombatch.StatusOK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	hits, err := s.search.Search(r.Context(), req.Query, s.k(req.K))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := hitsToResponse(hits)
	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// Answer handles POST /v1/answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !s.decode(w, r, &req) {
		return
	}

	ans, err := s.answer.Ask(r.Context(), req.Question, s.k(req.K))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Answer: ans.Text, Sources: hitsToResponse(ans.Sources)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves stored documents, so only a store outage is 503.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// k applies the default; explicit values, including 0, are left for the service to validate.
func (s *Server) k(requested *int) int {
	if requested == nil {
		return s.opts.DefaultK
	}
	return *requested
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
