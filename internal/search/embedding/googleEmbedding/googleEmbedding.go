package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veridex/evidenceAPI/internal/config"
	"github.com/veridex/evidenceAPI/internal/search/embedding"
	"github.com/veridex/evidenceAPI/pkg/logger_i"
	"google.golang.org/genai"
)

var dimension int32 = config.EmbeddingOutputDimensionality

// Client embeds text with the Gemini embedding models.
type Client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

func New(ctx context.Context, modelName string, apikey string) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating Google embedding client: %w", err)
	}
	logger := logger_i.NewLogger("google_embedding")
	logger.Debug("Google Embedding model name: " + modelName)
	return &Client{genAi: c, model: modelName, logger: logger}, nil
}

// Chunks are embedded for retrieval, queries against them. Mixing the two
// task types hurts recall, so the split lives here and nowhere else.
func taskTypeFor(granularity string) string {
	if granularity == embedding.QueryTask {
		return "RETRIEVAL_QUERY"
	}
	return "RETRIEVAL_DOCUMENT"
}

func (c *Client) Embed(ctx context.Context, text string, granularity string) ([]float32, error) {
	log := c.logger.WithTrace(ctx)

	result, err := c.doCall(ctx, genai.Text(text), granularity)
	if err != nil {
		log.Error("Error getting Embedding from Google", "error", err.Error())
		return nil, err
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("google returned no embeddings")
	}
	return result.Embeddings[0].Values, nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)

	res, err := c.doCall(ctx, getContent(texts), granularity)
	if err != nil || res == nil {
		if doRetry(err, log) {
			log.Debug("Retrying in 5 seconds")
			time.Sleep(5 * time.Second)
			res, err = c.doCall(ctx, getContent(texts), granularity)
		}
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err.Error())
			return nil, err
		}
		if res == nil {
			return nil, errors.New("google returned an empty batch response")
		}
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	if len(embeddingResults) != len(texts) {
		return nil, fmt.Errorf("google returned %d embeddings for %d texts", len(embeddingResults), len(texts))
	}
	return embeddingResults, nil
}

func (c *Client) doCall(ctx context.Context, content []*genai.Content, granularity string) (*genai.EmbedContentResponse, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskTypeFor(granularity)})
	return result, err
}
