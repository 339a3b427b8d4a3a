package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

type Options struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

type Store struct {
	client     *qdrant.Client
	embedder   embedding.Embedder
	collection string
	logger     *logger_i.Logger
}

// NewStore connects, creates the collection if needed and closes the client
// when ctx is done.
func NewStore(ctx context.Context, opts Options, embedder embedding.Embedder) (*Store, error) {
	logger := logger_i.NewLogger("Qdrant")
	if opts.Host == "" {
		opts.Host = config.QdrantHost
	}
	if opts.Port == 0 {
		opts.Port = config.QdrantGrpcPort
	}
	if opts.Collection == "" {
		opts.Collection = config.EmbeddingDBName
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     opts.Host,
		Port:     opts.Port,
		APIKey:   opts.APIKey,
		UseTLS:   opts.UseTLS || config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil, err
	}

	s := &Store{client: client, embedder: embedder, collection: opts.Collection, logger: logger}
	if err := s.createCollection(ctx, opts.Collection); err != nil {
		logger.Error("could not create collection", "collectionName", opts.Collection, "error", err)
		_ = client.Close()
		return nil, err
	}
	go s.closeOnDone(ctx)
	return s, nil
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	s.logger.Info("Shutting down Qdrant")
	if err := s.client.Close(); err != nil {
		s.logger.Error("could not close Qdrant", "error", err)
	}
}

func (s *Store) Insert(ctx context.Context, chunks []commonModels.Chunk) error {
	log := s.logger.WithTrace(ctx)
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	ingestedAt := time.Now()
	for start := 0; start < len(chunks); start += config.IngestBatchSize {
		end := min(start+config.IngestBatchSize, len(chunks))

		vectors, err := s.embedder.BatchEmbedding(ctx, texts[start:end])
		if err != nil {
			log.Error("Embedding batch failed", "from", start, "to", end, "error", err)
			return err
		}
		if err := s.upsertBatch(ctx, s.collection, chunks[start:end], vectors, ingestedAt); err != nil {
			log.Error("Qdrant upsert failed", "error", err)
			return err
		}
	}
	log.Debug("Inserted chunks", "count", len(chunks), "collection", s.collection)
	return nil
}

func (s *Store) Search(ctx context.Context, query string, k int) ([]commonModels.Chunk, error) {
	log := s.logger.WithTrace(ctx)
	if k <= 0 {
		return nil, nil
	}

	vectorFloat, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, err
	}

	matches := make([]commonModels.Chunk, 0, len(result))
	for _, hit := range result {
		matches = append(matches, fromPayload(hit.Payload))
	}
	log.Debug("Found matches", "count", len(matches))
	return matches, nil
}

func (s *Store) upsertBatch(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32, ingestedAt time.Time) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = toPoint(chunk, vectors[i], ingestedAt)
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// toPoint keys the point by fingerprint so identical content lands on the same id.
func toPoint(chunk commonModels.Chunk, vector []float32, ingestedAt time.Time) *qdrant.PointStruct {
	return &qdrant.PointStruct{
		Id:      qdrant.NewID(vectorDB.PointID(chunk.SourceHash)),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]any{
			"content":       chunk.Content,
			"fingerprint":   string(chunk.SourceHash),
			"source_doc_id": chunk.OriginDocument,
			"doc_name":      chunk.DocName,
			"chunk_order":   int64(chunk.Order),
			"ingested_at":   ingestedAt.Unix(),
		}),
	}
}

func fromPayload(payload map[string]*qdrant.Value) commonModels.Chunk {
	return commonModels.Chunk{
		Content:        payload["content"].GetStringValue(),
		SourceHash:     commonModels.Fingerprint(payload["fingerprint"].GetStringValue()),
		OriginDocument: payload["source_doc_id"].GetStringValue(),
		DocName:        payload["doc_name"].GetStringValue(),
		Order:          int(payload["chunk_order"].GetIntegerValue()),
	}
}

func (s *Store) createCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := s.client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.embedder.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
