package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	result    EmbeddingResult
	err       error
	got       string
	healthErr error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.got = text
	return s.result, s.err
}

func (s *stubEmbedder) HealthCheck(_ context.Context) error { return s.healthErr }

func TestInstructionEmbedder_PrependsInstruction(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}}
	emb := NewInstructionEmbedder(inner, "search_document: ")

	result, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got != "search_document: hello world" {
		t.Errorf("expected prepended text, got %q", inner.got)
	}
	if len(result.Embedding) != 3 {
		t.Errorf("expected 3-element vector, got %d", len(result.Embedding))
	}
}

func TestInstructionEmbedder_ErrorPropagation(t *testing.T) {
	innerErr := &EmbeddingError{Provider: "openai", StatusCode: 503}
	emb := NewInstructionEmbedder(&stubEmbedder{err: innerErr}, "q: ")

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, ErrEmbeddingFailure) {
		t.Errorf("expected ErrEmbeddingFailure through decorator, got %v", err)
	}
}

func TestInstructionEmbedder_HealthCheckForwards(t *testing.T) {
	inner := &stubEmbedder{healthErr: errors.New("down")}
	emb := NewInstructionEmbedder(inner, "")
	if err := emb.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected forwarded health error")
	}
}

func TestCheckDimension(t *testing.T) {
	if err := CheckDimension("vector", make([]float32, 4), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := CheckDimension("vector", make([]float32, 3), 4)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
