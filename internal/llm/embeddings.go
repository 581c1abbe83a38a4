package llm

import (
	"context"
	"fmt"
	"sort"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"repoqa/internal/contextutil"
)

// DefaultEmbeddingBatchSize is the number of texts sent per embeddings request.
const DefaultEmbeddingBatchSize = 512

// EmbeddingsClient generates embeddings through the OpenAI embeddings API.
type EmbeddingsClient struct {
	openai       openai.Client
	Model        string
	ExpectedSize int // Expected vector size for validation
	BatchSize    int
}

// NewEmbeddingsClient creates a new embeddings client.
// All embeddings returned by EmbedTexts are validated against expectedSize.
func NewEmbeddingsClient(cfg Config, expectedSize int, opts ...option.RequestOption) (*EmbeddingsClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	return &EmbeddingsClient{
		openai:       openai.NewClient(requestOptions(cfg, opts)...),
		Model:        cfg.Model,
		ExpectedSize: expectedSize,
		BatchSize:    DefaultEmbeddingBatchSize,
	}, nil
}

// EmbedTexts generates embeddings for the given texts.
// Returns a slice of float32 vectors, one per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultEmbeddingBatchSize
	}

	result := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		vectors, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
		result = append(result, vectors...)
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "embedded texts", "model", c.Model, "count", len(texts))
	return result, nil
}

// EmbedQuery embeds a single text.
func (c *EmbeddingsClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *EmbeddingsClient) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.openai.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Index < data[j].Index
	})

	result := make([][]float32, len(data))
	for i, d := range data {
		if c.ExpectedSize > 0 && len(d.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(d.Embedding), c.ExpectedSize)
		}
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}
	return result, nil
}
