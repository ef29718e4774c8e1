package openai

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/resumid-ai/resumid/pkg/ai"
)

const (
	NAME = "openai"

	DEFAULT_DIMENSIONS = 1536
)

type Driver struct {
	client *openai.Client
	model  string
	dim    int
}

func NewClient(token, proxy string) *openai.Client {
	cfg := openai.DefaultConfig(token)
	if proxy != "" {
		cfg.BaseURL = proxy
	}

	return openai.NewClientWithConfig(cfg)
}

func New(token, proxy, model string, dim int) *Driver {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	if dim <= 0 {
		dim = DEFAULT_DIMENSIONS
	}

	return &Driver{
		client: NewClient(token, proxy),
		model:  model,
		dim:    dim,
	}
}

func (s *Driver) Model() string {
	return s.model
}

func (s *Driver) Dim() int {
	return s.dim
}

func (s *Driver) embedding(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	slog.Debug("Embedding", slog.String("driver", NAME), slog.Int("inputs", len(content)))
	queryReq := openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: s.dim,
	}

	var (
		groups   [][]string
		result   [][]float32
		batchMax = 6
	)

	for i, v := range content {
		if i%batchMax == 0 {
			groups = append(groups, []string{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v)
	}

	r := ai.EmbeddingResult{
		Model: s.model,
		Dim:   s.dim,
		Usage: &openai.Usage{},
	}
	for _, v := range groups {
		queryReq.Input = v
		resp, err := s.client.CreateEmbeddings(ctx, queryReq)
		if err != nil {
			return r, ai.NewProviderError("openai.CreateEmbeddings", err)
		}
		for _, v := range resp.Data {
			result = append(result, v.Embedding)
		}

		r.Usage.CompletionTokens += resp.Usage.CompletionTokens
		r.Usage.PromptTokens += resp.Usage.PromptTokens
		r.Usage.TotalTokens += resp.Usage.TotalTokens
		r.Model = string(resp.Model)
	}

	if len(result) != len(content) {
		return r, ai.EmbeddingMismatch("openai.CreateEmbeddings", len(content), len(result))
	}

	r.Data = result
	return r, nil
}

func (s *Driver) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}

func (s *Driver) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	return s.embedding(ctx, content)
}
