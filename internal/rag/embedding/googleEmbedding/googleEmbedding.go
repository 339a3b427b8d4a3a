package googleEmbedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"google.golang.org/genai"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

func NewGoogleEmbedder(ctx context.Context, apiKey string, modelName string, httpClient *http.Client) (embedding.Embedder, error) {
	logger := logger_i.NewLogger("google_embedding")
	if modelName == "" {
		modelName = config.GoogleEmbeddingModel
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Error("Error creating Google Embedding client", "error", err)
		return nil, err
	}
	logger.Info("Google Embedding client created", "model", modelName)
	return &client{
		genAi:     c,
		model:     modelName,
		dimension: config.EmbeddingOutputDimensionality,
		logger:    logger,
	}, nil
}

func (c *client) Dimension() int {
	return int(c.dimension)
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.doCall(ctx, genai.Text(query), "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	vecs := collectValues(res)
	if len(vecs) == 0 || vecs[0] == nil {
		return nil, fmt.Errorf("google embedding: empty response")
	}
	return vecs[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)

	results := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, maxBatch) {
		res, err := c.doCall(ctx, getContent(batch), "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		vecs := collectValues(res)
		if len(vecs) != len(batch) {
			log.Error("Embedding count mismatch", "sent", len(batch), "received", len(vecs))
			return nil, fmt.Errorf("google embedding: got %d vectors for %d texts", len(vecs), len(batch))
		}
		results = append(results, vecs...)
	}
	return results, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, taskType string) (*genai.EmbedContentResponse, error) {
	log := c.logger.WithTrace(ctx)
	conf := &genai.EmbedContentConfig{OutputDimensionality: &c.dimension, TaskType: taskType}

	result, err := c.genAi.Models.EmbedContent(ctx, c.model, content, conf)
	if err != nil && waitForRetry(ctx, err, log) {
		result, err = c.genAi.Models.EmbedContent(ctx, c.model, content, conf)
	}
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, llm.ClassifyError(err)
	}
	return result, nil
}
