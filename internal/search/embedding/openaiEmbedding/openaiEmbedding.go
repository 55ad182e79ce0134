package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/customHttpClient"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
)

// Client embeds text with the OpenAI embedding models. Same contract as the
// Google client, so main can pick either from config.
type Client struct {
	api    openai.Client
	model  openai.EmbeddingModel
	logger *logger_i.Logger
}

func New(apiKey string, modelName string) *Client {
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.PooledClient()),
	)
	return &Client{
		api:    api,
		model:  openai.EmbeddingModel(modelName),
		logger: logger_i.NewLogger("openai_embedding"),
	}
}

func (c *Client) Embed(ctx context.Context, text string, granularity string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text}, granularity)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)

	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      c.model,
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	// The API reports the index each vector belongs to, order is not promised.
	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}
