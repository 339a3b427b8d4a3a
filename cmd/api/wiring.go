package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/customHttpClient"
	"github.com/akolanti/FinalGuardian/internal/data/redisStore"
	"github.com/akolanti/FinalGuardian/internal/rag"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/FinalGuardian/internal/rag/evaluator"
	"github.com/akolanti/FinalGuardian/internal/rag/ingest"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/internal/rag/llm/azureOpenAI"
	"github.com/akolanti/FinalGuardian/internal/rag/llm/gemini"
	"github.com/akolanti/FinalGuardian/internal/rag/quiz"
	"github.com/akolanti/FinalGuardian/internal/rag/tools"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB/localDB"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/FinalGuardian/internal/worker"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"golang.org/x/time/rate"
)

type components struct {
	service rag.Service
	tools   []tools.Tool
}

// buildComponents creates the clients and hands them to the coordinator.
// Clients holding connections close themselves when ctx is done.
func buildComponents(ctx context.Context, settings *config.Settings) (*components, error) {
	logger := logger_i.NewLogger("main")
	httpClient := customHttpClient.NewClient(config.RequestProcessTimeout)

	provider, err := newProvider(ctx, settings, httpClient)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	provider = llm.Limited(provider, rate.NewLimiter(rate.Limit(settings.LLMRequestsPerSecond), settings.LLMBurst))

	embedder, err := newEmbedder(ctx, settings, httpClient)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	index, cache, err := newIndex(ctx, settings, embedder)
	if err != nil {
		return nil, fmt.Errorf("index store: %w", err)
	}

	ledger, err := newLedger(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("dedup ledger: %w", err)
	}

	synth := quiz.NewSynthesizer(provider, quiz.Options{
		MaxContextLength: settings.MaxContextLength,
		Strict:           settings.QuizStrict,
	})
	toolset := []tools.Tool{tools.NewRetrievalTool(index), tools.NewQuizTool(index, synth)}

	logger.Info("Components ready",
		"llm", settings.LLMProvider,
		"embedding", settings.EmbeddingProvider,
		"index", settings.IndexBackend,
		"ledger", settings.LedgerBackend,
		"semanticCache", cache != nil,
	)

	return &components{
		service: rag.NewService(rag.Dependencies{
			Splitter:    ingest.NewSplitter(settings.ChunkSize, settings.ChunkOverlap),
			Ledger:      ledger,
			Index:       index,
			Synthesizer: synth,
			Grader:      evaluator.NewEvaluator(provider),
			Tutor:       tools.NewTutor(provider, cache, toolset...),
			Pool:        worker.NewPool(settings.EvalConcurrency),
		}),
		tools: toolset,
	}, nil
}

func newProvider(ctx context.Context, settings *config.Settings, httpClient *http.Client) (llm.Provider, error) {
	switch settings.LLMProvider {
	case "azure":
		if !settings.HasAzure() {
			return nil, fmt.Errorf("azure provider needs AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT")
		}
		return azureOpenAI.NewOpenAIClient(azureOpenAI.Options{
			Endpoint:   settings.AzureEndpoint,
			APIKey:     settings.AzureAPIKey,
			APIVersion: settings.AzureAPIVersion,
			Deployment: settings.AzureDeployment,
			HTTPClient: httpClient,
		})
	case "openai":
		return azureOpenAI.NewOpenAIClient(azureOpenAI.Options{APIKey: settings.OpenAIAPIKey, HTTPClient: httpClient})
	case "gemini":
		return gemini.NewGeminiClient(ctx, settings.GoogleAPIKey, config.GeminiModelName, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", settings.LLMProvider)
	}
}

func newEmbedder(ctx context.Context, settings *config.Settings, httpClient *http.Client) (embedding.Embedder, error) {
	switch settings.EmbeddingProvider {
	case "hash":
		return hashEmbedding.New(config.HashEmbeddingDimensionality), nil
	case "google":
		return googleEmbedding.NewGoogleEmbedder(ctx, settings.GoogleAPIKey, config.GoogleEmbeddingModel, httpClient)
	case "azure":
		return openaiEmbedding.NewOpenAIEmbedder(openaiEmbedding.Options{
			Endpoint:   settings.AzureEndpoint,
			APIKey:     settings.AzureAPIKey,
			APIVersion: settings.AzureEmbeddingVersion,
			Deployment: settings.AzureEmbeddingDeployment,
			HTTPClient: httpClient,
		})
	case "openai":
		return openaiEmbedding.NewOpenAIEmbedder(openaiEmbedding.Options{APIKey: settings.OpenAIAPIKey, HTTPClient: httpClient})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", settings.EmbeddingProvider)
	}
}

// newIndex returns a nil cache unless qdrant backs the index and the cache is switched on.
func newIndex(ctx context.Context, settings *config.Settings, embedder embedding.Embedder) (vectorDB.IndexStore, vectorDB.SemanticCache, error) {
	switch settings.IndexBackend {
	case "local":
		store, err := localDB.NewStore(settings.IndexDir, embedder)
		return store, nil, err
	case "qdrant":
		store, err := qdrantDB.NewStore(ctx, qdrantDB.Options{
			Host:   settings.QdrantHost,
			Port:   settings.QdrantPort,
			APIKey: settings.QdrantAPIKey,
		}, embedder)
		if err != nil {
			return nil, nil, err
		}
		if !settings.SemanticCache {
			return store, nil, nil
		}
		cache, err := qdrantDB.NewSemanticCache(ctx, store)
		if err != nil {
			return nil, nil, err
		}
		return store, cache, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", settings.IndexBackend)
	}
}

func newLedger(ctx context.Context, settings *config.Settings) (dedup.Ledger, error) {
	switch settings.LedgerBackend {
	case "file":
		return dedup.NewFileLedger(settings.LedgerPath), nil
	case "redis":
		store, err := redisStore.NewStore(ctx, redisStore.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       config.RedisLedgerDB,
		})
		if err != nil {
			return nil, err
		}
		return dedup.NewRedisLedger(store, config.RedisLedgerKey), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", settings.LedgerBackend)
	}
}
