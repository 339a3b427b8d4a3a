package localDB

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

const snapshotFile = "index.json"

type record struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Fingerprint string    `json:"fingerprint"`
	SourceDocID string    `json:"source_doc_id"`
	DocName     string    `json:"doc_name"`
	ChunkOrder  int       `json:"chunk_order"`
	IngestedAt  time.Time `json:"ingested_at"`
	Vector      []float32 `json:"vector"`
}

type snapshot struct {
	Dimension int      `json:"dimension"`
	Records   []record `json:"records"`
}

// Store is an in-process cosine index persisted as one JSON file. An empty dir
// keeps everything in memory.
type Store struct {
	mu       sync.RWMutex
	dir      string
	embedder embedding.Embedder
	records  []record
	byID     map[string]int
	logger   *logger_i.Logger
}

func NewStore(dir string, embedder embedding.Embedder) (*Store, error) {
	s := &Store{
		dir:      dir,
		embedder: embedder,
		byID:     make(map[string]int),
		logger:   logger_i.NewLogger("Local Index"),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) Insert(ctx context.Context, chunks []commonModels.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	var vectors [][]float32
	for _, batch := range embedding.Batches(texts, config.IngestBatchSize) {
		vecs, err := s.embedder.BatchEmbedding(ctx, batch)
		if err != nil {
			return err
		}
		vectors = append(vectors, vecs...)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		r := record{
			ID:          vectorDB.PointID(c.SourceHash),
			Content:     c.Content,
			Fingerprint: string(c.SourceHash),
			SourceDocID: c.OriginDocument,
			DocName:     c.DocName,
			ChunkOrder:  c.Order,
			IngestedAt:  now,
			Vector:      vectors[i],
		}
		if idx, ok := s.byID[r.ID]; ok {
			s.records[idx] = r
			continue
		}
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return s.persistLocked()
}

func (s *Store) Search(ctx context.Context, query string, k int) ([]commonModels.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	q, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx   int
		score float64
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]scored, 0, len(s.records))
	for i, r := range s.records {
		hits = append(hits, scored{idx: i, score: cosine(q, r.Vector)})
	}
	// stable so equal scores keep insertion order
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]commonModels.Chunk, 0, len(hits))
	for _, h := range hits {
		r := s.records[h.idx]
		out = append(out, commonModels.Chunk{
			Content:        r.Content,
			SourceHash:     commonModels.Fingerprint(r.Fingerprint),
			OriginDocument: r.SourceDocID,
			DocName:        r.DocName,
			Order:          r.ChunkOrder,
		})
	}
	return out, nil
}

func (s *Store) load() error {
	if s.dir == "" {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read index snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode index snapshot: %w", err)
	}
	if len(snap.Records) > 0 && snap.Dimension != s.embedder.Dimension() {
		return fmt.Errorf("index snapshot has dimension %d, embedder produces %d", snap.Dimension, s.embedder.Dimension())
	}
	for _, r := range snap.Records {
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	s.logger.Info("Loaded local index", "dir", s.dir, "records", len(s.records))
	return nil
}

// persistLocked writes to a temp file and renames it so a crash never leaves
// a half written snapshot.
func (s *Store) persistLocked() error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return err
	}
	raw, err := json.Marshal(snapshot{Dimension: s.embedder.Dimension(), Records: s.records})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, snapshotFile+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, snapshotFile))
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
