package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/config"
	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/vecrag/internal/usecase/embedding"
)

func testConfig(t *testing.T, extra string) config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("database:\n  addrs: [\"localhost:6379\"]\nembedding:\n  dimensions: 3\n" + extra))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestBuildEmbedder_Chain(t *testing.T) {
	provider := openai.NewEmbedder(&openai.Config{Model: "m"})

	tests := []struct {
		name        string
		extra       string
		instruction string
		check       func(t *testing.T, e domain.Embedder)
	}{
		{
			name:        "instruction outermost",
			instruction: "query: ",
			check: func(t *testing.T, e domain.Embedder) {
				if _, ok := e.(*domain.InstructionEmbedder); !ok {
					t.Errorf("outermost = %T, want *domain.InstructionEmbedder", e)
				}
			},
		},
		{
			name:  "no instruction returns instrumented",
			extra: "  cache: false\n",
			check: func(t *testing.T, e domain.Embedder) {
				if _, ok := e.(*embeddinguc.InstrumentedEmbedder); !ok {
					t.Errorf("outermost = %T, want *embedding.InstrumentedEmbedder", e)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := buildEmbedder(testConfig(t, tc.extra), provider, nil, embeddinguc.PurposeQuery, tc.instruction, zap.NewNop())
			tc.check(t, e)
		})
	}
}

func TestNew_StoreUnreachable(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Database.Addrs = []string{"127.0.0.1:1"}
	cfg.Database.ReadinessTimeout = 1
	cfg.Database.DialTimeoutMS = 50

	_, err := New(context.Background(), cfg, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unreachable store")
	}
	if errors.Is(err, context.Canceled) {
		t.Errorf("unexpected cancellation: %v", err)
	}
}
