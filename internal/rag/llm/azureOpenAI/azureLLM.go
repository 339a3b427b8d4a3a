package azureOpenAI

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

type Options struct {
	// Endpoint empty means api.openai.com
	Endpoint   string
	APIKey     string
	APIVersion string
	// Deployment is the Azure deployment name, or the model name for OpenAI.
	Deployment string
	HTTPClient *http.Client
}

type llmClient struct {
	client      openai.Client
	model       string
	temperature float64
	logger      *logger_i.Logger
}

func clientOptions(opts Options) []option.RequestOption {
	var reqOpts []option.RequestOption
	if opts.Endpoint != "" {
		reqOpts = append(reqOpts,
			azure.WithEndpoint(opts.Endpoint, opts.APIVersion),
			azure.WithAPIKey(opts.APIKey),
		)
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	// retries are the caller's decision
	return append(reqOpts, option.WithMaxRetries(0))
}

// NewOpenAIClient also serves Azure OpenAI when Options.Endpoint is set.
func NewOpenAIClient(opts Options) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_azure_openai")
	if opts.APIKey == "" {
		return nil, errors.New("openai: missing api key")
	}
	if opts.Deployment == "" {
		opts.Deployment = config.OpenAIChatModel
	}

	logger.Info("OpenAI client created", "deployment", opts.Deployment, "azure", opts.Endpoint != "")
	return &llmClient{
		client:      openai.NewClient(clientOptions(opts)...),
		model:       opts.Deployment,
		temperature: float64(config.ModelTemperature),
		logger:      logger,
	}, nil
}

func (c *llmClient) Complete(ctx context.Context, prompt string) (llm.GenerationResult, error) {
	log := c.logger.WithTrace(ctx)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		log.Error("OpenAI completion failed", "error", err)
		return nil, llm.ClassifyError(err)
	}
	if len(resp.Choices) == 0 {
		return llm.StructuredMessage{Role: "assistant"}, nil
	}
	msg := resp.Choices[0].Message
	return llm.StructuredMessage{Role: string(msg.Role), Content: msg.Content}, nil
}
