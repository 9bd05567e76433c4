// Package answer grounds a generated answer in retrieved documents.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/domain/search"
)

// DefaultSystemPrompt keeps the model on the retrieved context.
const DefaultSystemPrompt = "You are an assistant that answers using only provided context."

const contextSeparator = "\n---\n"

// Answer is the generated text plus the hits it was grounded on.
type Answer struct {
	Text    string
	Sources []search.Hit
}

// Service runs retrieval then generation.
type Service struct {
	retriever    Retriever
	generator    Generator
	systemPrompt string
}

// New creates an answer service. An empty systemPrompt uses DefaultSystemPrompt.
func New(r Retriever, g Generator, systemPrompt string) *Service {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Service{retriever: r, generator: g, systemPrompt: systemPrompt}
}

// Ask answers question from the k nearest documents. An empty retrieval still
// reaches the generator, with an empty context.
func (s *Service) Ask(ctx context.Context, question string, k int) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, domain.NewInvalidRequest("question", "must not be empty")
	}

	hits, err := s.retriever.Search(ctx, question, k)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	text, err := s.generator.Generate(ctx, s.Turns(question, hits))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}
	return Answer{Text: text, Sources: hits}, nil
}

// Turns builds the chat request for question over hits.
func (s *Service) Turns(question string, hits []search.Hit) []domain.Turn {
	return []domain.Turn{
		{Role: domain.RoleSystem, Content: s.systemPrompt},
		{Role: domain.RoleUser, Content: "Context:\n" + JoinContext(hits) + "\n\nQuestion: " + question},
	}
}

// JoinContext concatenates hit texts in rank order.
func JoinContext(hits []search.Hit) string {
	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		texts = append(texts, h.Text())
	}
	return strings.Join(texts, contextSeparator)
}
