package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
	logger      *logger_i.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string, modelName string, httpClient *http.Client) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")
	if apiKey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	if modelName == "" {
		modelName = config.GeminiModelName
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, err
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, temperature: config.ModelTemperature, logger: logger}, nil
}

func (c *llmClient) Complete(ctx context.Context, prompt string) (llm.GenerationResult, error) {
	log := c.logger.WithTrace(ctx)

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(c.temperature)},
	)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		return nil, llm.ClassifyError(err)
	}
	if result == nil {
		return llm.Text(""), nil
	}
	return llm.Text(result.Text()), nil
}
