package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/resumid-ai/resumid/pkg/errors"
	"github.com/resumid-ai/resumid/pkg/i18n"
)

type ModelName struct {
	EmbeddingModel string `toml:"embedding_model"`
}

type EmbeddingResult struct {
	Model string
	Dim   int
	Usage *openai.Usage
	Data  [][]float32
}

// Embedder turns text into fixed-dimension vectors. Implementations must
// return one vector per input, in input order.
type Embedder interface {
	EmbeddingForQuery(ctx context.Context, content []string) (EmbeddingResult, error)
	EmbeddingForDocument(ctx context.Context, title string, content []string) (EmbeddingResult, error)
	Model() string
	Dim() int
}

// TokenCounter is implemented by drivers that count tokens themselves
// instead of going through the shared tiktoken encodings.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// NewProviderError wraps a transport or provider failure so callers can map it
// to a 502 without inspecting driver-specific error types.
func NewProviderError(method string, err error) error {
	return errors.New(method, i18n.ERROR_EMBEDDING_PROVIDER, err).Code(502)
}

func EmbeddingMismatch(method string, want, got int) error {
	return errors.New(method, i18n.ERROR_EMBEDDING_PROVIDER, fmt.Errorf("embedding count mismatch, want %d got %d", want, got)).Code(502)
}
