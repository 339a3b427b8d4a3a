package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	CacheSimilarityCutoff       = 0.97

	//chunking - same window the notes splitter always used
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
	IngestBatchSize     = 100
	PageExtractTimeout  = 10 * time.Second
	MaxUploadSize       = 32 << 20 //32mb

	//quiz
	DefaultMaxContextLength = 1000
	QuizSearchK             = 10
	SingleQuizSearchK       = 3
	RetrievalToolSearchK    = 4
	RetrievalToolMaxChars   = 500

	//evaluation fan-out
	DefaultEvalConcurrency = 4
	EvalRetryOnUnparsed    = 1

	//outbound generation limiter
	DefaultLLMRequestsPerSecond = 3
	DefaultLLMBurst             = 3

	EmbeddingOutputDimensionality int32 = 1536
	HashEmbeddingDimensionality         = 512
	EmbeddingDBName                     = "study-notes"
	SemanticCacheDBName                 = "semantic-cache"

	//serverTimeouts - generation calls are slow, write timeout is generous
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 120 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second
	RequestProcessTimeout  = 90 * time.Second

	//server listening port
	ServerListenAddr = ":8000"

	//vectorDB
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1 //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//local persisted state, mirrors the old temp/ + vectorstore/ layout
	DefaultLedgerPath = "temp/uploaded_hashes.txt"
	DefaultIndexDir   = "vectorstore/local_db"
	UploadTempDir     = "temp"

	//llm
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIChatModel      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature float32 = 0.7

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisLedgerDB  = 0
	RedisLedgerKey = "finalguardian:ledger"
)
