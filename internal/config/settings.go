package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings is everything that can change between deployments.
// Defaults come from the constants in this package.
type Settings struct {
	IsProd     bool   `envconfig:"IS_PROD" default:"false"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8000"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
	SentryDSN  string `envconfig:"SENTRY_DSN"`

	ChunkSize        int  `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap     int  `envconfig:"CHUNK_OVERLAP" default:"100"`
	MaxContextLength int  `envconfig:"MAX_CONTEXT_LENGTH" default:"1000"`
	QuizStrict       bool `envconfig:"QUIZ_STRICT" default:"false"`
	EvalConcurrency  int  `envconfig:"EVAL_CONCURRENCY" default:"4"`

	LLMProvider          string  `envconfig:"LLM_PROVIDER" default:"azure"`
	LLMRequestsPerSecond float64 `envconfig:"LLM_REQUESTS_PER_SECOND" default:"3"`
	LLMBurst             int     `envconfig:"LLM_BURST" default:"3"`

	EmbeddingProvider string `envconfig:"EMBEDDING_PROVIDER" default:"hash"`

	GoogleAPIKey string `envconfig:"GOOGLE_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	AzureEndpoint            string `envconfig:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIKey              string `envconfig:"AZURE_OPENAI_API_KEY"`
	AzureDeployment          string `envconfig:"AZURE_OPENAI_DEPLOYMENT"`
	AzureAPIVersion          string `envconfig:"AZURE_OPENAI_VERSION" default:"2024-06-01"`
	AzureEmbeddingDeployment string `envconfig:"AZURE_EMBEDDING_DEPLOYMENT"`
	AzureEmbeddingVersion    string `envconfig:"AZURE_EMBEDDING_VERSION" default:"2024-06-01"`

	IndexBackend  string `envconfig:"INDEX_BACKEND" default:"local"`
	IndexDir      string `envconfig:"INDEX_DIR" default:"vectorstore/local_db"`
	QdrantHost    string `envconfig:"QDRANT_HOST" default:"localhost"`
	QdrantPort    int    `envconfig:"QDRANT_PORT" default:"6334"`
	QdrantAPIKey  string `envconfig:"QDRANT_API_KEY"`
	SemanticCache bool   `envconfig:"SEMANTIC_CACHE" default:"false"`

	LedgerBackend string `envconfig:"LEDGER_BACKEND" default:"file"`
	LedgerPath    string `envconfig:"LEDGER_PATH" default:"temp/uploaded_hashes.txt"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
}

// Load reads an optional .env file and then the QUIZ_* environment.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("QUIZ", &s); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	s.applyDefaults()
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.ChunkSize <= 0 {
		s.ChunkSize = DefaultChunkSize
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		s.ChunkOverlap = DefaultChunkOverlap
	}
	if s.MaxContextLength <= 0 {
		s.MaxContextLength = DefaultMaxContextLength
	}
	if s.EvalConcurrency <= 0 {
		s.EvalConcurrency = DefaultEvalConcurrency
	}
	if s.LLMRequestsPerSecond <= 0 {
		s.LLMRequestsPerSecond = DefaultLLMRequestsPerSecond
	}
	if s.LLMBurst <= 0 {
		s.LLMBurst = DefaultLLMBurst
	}
}

func (s *Settings) NoAuthBypass() bool {
	return s.AuthToken == ""
}

func (s *Settings) HasAzure() bool {
	return s.AzureEndpoint != "" && s.AzureAPIKey != "" && s.AzureDeployment != ""
}

func (s *Settings) HasGoogle() bool {
	return s.GoogleAPIKey != ""
}
