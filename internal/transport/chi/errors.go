package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/logger"
)

// errorClass maps one domain sentinel to an HTTP reply.
type errorClass struct {
	sentinel error
	status   int
	code     ErrorCode
}

// errorClasses are checked in order; the first match wins.
var errorClasses = []errorClass{
	{domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed},
	{domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound},
	{domain.ErrEmbeddingFailure, http.StatusBadGateway, CodeEmbeddingFailure},
	{domain.ErrGenerationFailure, http.StatusBadGateway, CodeGenerationFailure},
	{domain.ErrMalformedReply, http.StatusBadGateway, CodeMalformedReply},
	{domain.ErrIndexProvisioning, http.StatusServiceUnavailable, CodeIndexProvisioning},
	{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable},
}

// classify returns the HTTP status, code and client-safe message for err.
// Only InvalidRequest details reach the client; provider bodies and store errors stay in logs.
func classify(err error) (int, ErrorCode, string) {
	var invalid *domain.InvalidRequestError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, CodeValidationFailed, invalid.Error()
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.sentinel) {
			return c.status, c.code, c.sentinel.Error()
		}
	}
	return http.StatusInternalServerError, CodeInternalError, "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("code", string(code)), zap.Error(err))
	} else {
		log.Warn("request rejected", zap.String("code", string(code)), zap.Error(err))
	}
	writeError(w, status, code, msg)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
