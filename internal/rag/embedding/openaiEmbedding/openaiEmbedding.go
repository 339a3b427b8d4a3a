package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

const maxBatch = 100

type Options struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	Dimension  int
	HTTPClient *http.Client
}

type client struct {
	api            openai.Client
	model          string
	dimension      int
	sendDimensions bool
	logger         *logger_i.Logger
}

func NewOpenAIEmbedder(opts Options) (embedding.Embedder, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai embedding: missing api key")
	}
	if opts.Deployment == "" {
		opts.Deployment = config.OpenAIEmbeddingModel
	}
	// ada-002 deployments reject the dimensions parameter, so only send it when asked
	sendDimensions := opts.Dimension > 0
	if !sendDimensions {
		opts.Dimension = int(config.EmbeddingOutputDimensionality)
	}

	var reqOpts []option.RequestOption
	if opts.Endpoint != "" {
		reqOpts = append(reqOpts, azure.WithEndpoint(opts.Endpoint, opts.APIVersion), azure.WithAPIKey(opts.APIKey))
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	logger := logger_i.NewLogger("openai_embedding")
	logger.Info("OpenAI embedding client created", "deployment", opts.Deployment)
	return &client{
		api:            openai.NewClient(reqOpts...),
		model:          opts.Deployment,
		dimension:      opts.Dimension,
		sendDimensions: sendDimensions,
		logger:         logger,
	}, nil
}

func (c *client) Dimension() int {
	return c.dimension
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vecs, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)

	results := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, maxBatch) {
		params := openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
			Model: openai.EmbeddingModel(c.model),
		}
		if c.sendDimensions {
			params.Dimensions = openai.Int(int64(c.dimension))
		}
		resp, err := c.api.Embeddings.New(ctx, params)
		if err != nil {
			log.Error("Error getting Embeddings from OpenAI", "error", err)
			return nil, llm.ClassifyError(err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai embedding: got %d vectors for %d texts", len(resp.Data), len(batch))
		}

		// Data carries its own index; do not trust response order
		ordered := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || int(d.Index) >= len(batch) {
				return nil, fmt.Errorf("openai embedding: index %d out of range", d.Index)
			}
			ordered[d.Index] = toFloat32(d.Embedding)
		}
		results = append(results, ordered...)
	}
	return results, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
