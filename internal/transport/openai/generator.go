package openai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/metrics"
)

// roles maps domain roles to the provider's wire names.
var roles = map[domain.Role]string{
	domain.RoleSystem: openai.ChatMessageRoleSystem,
	domain.RoleUser:   openai.ChatMessageRoleUser,
}

// Sampling tunes a single completion.
type Sampling struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// Generator calls an OpenAI-compatible chat completions endpoint.
type Generator struct {
	client   *openai.Client
	model    string
	sampling Sampling
	logger   *zap.Logger
}

// NewGenerator creates a chat provider client.
func NewGenerator(cfg *Config, sampling Sampling) *Generator {
	return &Generator{
		client:   newClient(cfg),
		model:    cfg.Model,
		sampling: sampling,
		logger:   loggerOrNop(cfg.Logger),
	}
}

// Generate sends the turns and returns the first choice's content.
func (g *Generator) Generate(ctx context.Context, turns []domain.Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		role, ok := roles[t.Role]
		if !ok {
			return "", domain.NewInvalidRequest("role", "unsupported role "+string(t.Role))
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		MaxTokens:   g.sampling.MaxTokens,
		Temperature: g.sampling.Temperature,
		TopP:        g.sampling.TopP,
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		status, body := responseDetails(err)
		genErr := &domain.GenerationError{Model: g.model, StatusCode: status, Body: body, Err: err}
		g.fail(duration, genErr)
		return "", genErr
	}
	if len(resp.Choices) == 0 {
		genErr := &domain.GenerationError{Model: g.model, Err: errors.New("no choices in response")}
		g.fail(duration, genErr)
		return "", genErr
	}

	metrics.GenerationRequestDuration.WithLabelValues(g.model, "success").Observe(duration.Seconds())
	g.logger.Debug("completion created",
		zap.String("model", g.model),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("duration", duration),
	)
	return resp.Choices[0].Message.Content, nil
}

func (g *Generator) fail(duration time.Duration, err error) {
	metrics.GenerationRequestDuration.WithLabelValues(g.model, "error").Observe(duration.Seconds())
	g.logger.Error("completion request failed",
		zap.String("model", g.model),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
}
