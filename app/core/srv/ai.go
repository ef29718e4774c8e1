package srv

import (
	"context"
	"os"

	"github.com/resumid-ai/resumid/pkg/ai"
	"github.com/resumid-ai/resumid/pkg/ai/openai"
)

type AIConfig struct {
	Driver   string `toml:"driver"`
	Token    string `toml:"token"`
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Dim      int    `toml:"dim"`
}

func (c *AIConfig) FromENV() {
	c.Token = os.Getenv("RESUMID_AI_TOKEN")
	c.Endpoint = os.Getenv("RESUMID_AI_ENDPOINT")
	c.Model = os.Getenv("RESUMID_AI_EMBEDDING_MODEL")
}

// AI wraps the configured embedding driver.
type AI struct {
	embedder ai.Embedder
}

func (a *AI) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return a.embedder.EmbeddingForQuery(ctx, content)
}

func (a *AI) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return a.embedder.EmbeddingForDocument(ctx, title, content)
}

func (a *AI) Model() string {
	return a.embedder.Model()
}

func (a *AI) Dim() int {
	return a.embedder.Dim()
}

// CountTokens estimates tokens with the driver's own counter when it has
// one, and the model's tiktoken encoding otherwise.
func (a *AI) CountTokens(text string) (int, error) {
	if counter, ok := a.embedder.(ai.TokenCounter); ok {
		return counter.CountTokens(text)
	}
	return ai.EstimateTokens(a.embedder.Model(), text)
}

func SetupAI(cfg AIConfig) *AI {
	return &AI{
		embedder: openai.New(cfg.Token, cfg.Endpoint, cfg.Model, cfg.Dim),
	}
}

// ApplyAIDriver injects a ready-made embedder, used by tests.
func ApplyAIDriver(embedder ai.Embedder) ApplyFunc {
	return func(s *Srv) {
		s.ai = &AI{embedder: embedder}
	}
}

func ApplyAI(cfg AIConfig) ApplyFunc {
	return func(s *Srv) {
		s.ai = SetupAI(cfg)
	}
}
