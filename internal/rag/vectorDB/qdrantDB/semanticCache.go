package qdrantDB

import (
	"context"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
	"github.com/qdrant/go-client/qdrant"
)

// Cache is the chat answer cache. It lives next to the notes collection on the
// same Qdrant client.
type Cache struct {
	store      *Store
	collection string
	cutoff     float32
}

func NewSemanticCache(ctx context.Context, store *Store) (*Cache, error) {
	if err := store.createCollection(ctx, config.SemanticCacheDBName); err != nil {
		store.logger.Error("Semantic cache collection creation failed", "error", err)
		return nil, err
	}
	return &Cache{store: store, collection: config.SemanticCacheDBName, cutoff: config.CacheSimilarityCutoff}, nil
}

func (c *Cache) GetCachedAnswer(ctx context.Context, query string) (string, bool, error) {
	log := c.store.logger.WithTrace(ctx)

	queryVector, err := c.store.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return "", false, err
	}

	searchResult, err := c.store.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Cache Query failed", "error", err)
		return "", false, err
	}
	if len(searchResult) == 0 || searchResult[0].Score < c.cutoff {
		return "", false, nil
	}

	log.Debug("cache hit", "score", searchResult[0].Score)
	return searchResult[0].Payload["answer"].GetStringValue(), true, nil
}

func (c *Cache) SaveToCache(ctx context.Context, query string, answer string) error {
	log := c.store.logger.WithTrace(ctx)

	vector, err := c.store.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return err
	}

	_, err = c.store.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(vectorDB.PointID(dedup.Fingerprint(query))),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"question":  query,
					"answer":    answer,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		log.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
