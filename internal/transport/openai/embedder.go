package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

const defaultProvider = "openai"

// Config holds the provider connection settings shared by Embedder and Generator.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int // embeddings only; 0 leaves the model default
	Timeout    time.Duration
	Provider   string
	Logger     *zap.Logger
}

func newClient(cfg *Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(clientCfg)
}

func providerName(cfg *Config) string {
	if cfg.Provider == "" {
		return defaultProvider
	}
	return cfg.Provider
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Embedder calls an OpenAI-compatible embeddings endpoint.
type Embedder struct {
	client     *openai.Client
	model      string
	dimensions int
	provider   string
	logger     *zap.Logger
}

// NewEmbedder creates an embedding provider client. One instance is meant to live for the process.
func NewEmbedder(cfg *Config) *Embedder {
	return &Embedder{
		client:     newClient(cfg),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		provider:   providerName(cfg),
		logger:     loggerOrNop(cfg.Logger),
	}
}

// Embed implements domain.Embedder. Only data[0].embedding of the reply is used.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(e.model),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		embErr := e.toEmbeddingError(err)
		e.fail("api_error", duration, embErr)
		return domain.EmbeddingResult{}, embErr
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		embErr := &domain.EmbeddingError{
			Provider: e.provider,
			Model:    e.model,
			Err:      errors.New("empty embedding in response"),
		}
		e.fail("empty_response", duration, embErr)
		return domain.EmbeddingResult{}, embErr
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, e.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, e.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, e.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	vec := resp.Data[0].Embedding
	e.logger.Debug("embedding created",
		zap.String("provider", e.provider),
		zap.String("model", e.model),
		zap.Int("dimensions", len(vec)),
		zap.Duration("duration", duration),
	)

	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return e.toEmbeddingError(err)
	}
	return nil
}

func (e *Embedder) fail(kind string, duration time.Duration, err error) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, e.model, kind).Inc()
	e.logger.Error("embedding request failed",
		zap.String("provider", e.provider),
		zap.String("model", e.model),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
}

func (e *Embedder) toEmbeddingError(err error) *domain.EmbeddingError {
	status, body := responseDetails(err)
	return &domain.EmbeddingError{
		Provider:   e.provider,
		Model:      e.model,
		StatusCode: status,
		Body:       body,
		Err:        err,
	}
}

// responseDetails pulls the HTTP status and provider message out of a go-openai error.
// Both are zero for transport failures where no response arrived.
func responseDetails(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return reqErr.HTTPStatusCode, detail
		}
		return reqErr.HTTPStatusCode, string(reqErr.Body)
	}
	return 0, ""
}

// extractDetail reads {"detail": "..."} bodies some compatible providers send instead of the OpenAI error envelope.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
