// Package openai wraps the go-openai SDK behind the small embedding surface
// the backfill stage needs, so tests can substitute a fake embedder.
package openai

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultEmbeddingModel is used when no model is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Embedder generates embedding vectors for batches of input text.
type Embedder interface {
	CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error)
}

// Client implements Embedder against the OpenAI API.
type Client struct {
	client *openai.Client
}

// NewClient creates an embedding client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{client: openai.NewClient(apiKey)}
}

// CreateEmbeddings generates embeddings for multiple inputs in one request.
// Vectors come back in input order.
func (c *Client) CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error) {
	if model == "" {
		model = DefaultEmbeddingModel
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(model),
		Input: inputs,
	})
	if err != nil {
		return nil, eris.Wrap(err, "openai: create embeddings")
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}

	return embeddings, nil
}

var _ Embedder = (*Client)(nil)
