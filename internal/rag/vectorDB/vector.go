package vectorDB

import (
	"context"
	"encoding/hex"

	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/google/uuid"
)

// IndexStore holds embedded chunks. Inserting a chunk whose fingerprint is
// already stored overwrites the same entry. Nothing is ever removed.
type IndexStore interface {
	Insert(ctx context.Context, chunks []commonModels.Chunk) error
	// Search returns at most k chunks, most relevant first.
	Search(ctx context.Context, query string, k int) ([]commonModels.Chunk, error)
}

// SemanticCache stores answers keyed by the meaning of the question.
type SemanticCache interface {
	GetCachedAnswer(ctx context.Context, query string) (string, bool, error)
	SaveToCache(ctx context.Context, query string, answer string) error
}

// PointID turns a fingerprint into a stable UUID. An MD5 fingerprint is exactly
// 16 bytes, so it is used as is.
func PointID(fp commonModels.Fingerprint) string {
	raw, err := hex.DecodeString(string(fp))
	if err == nil && len(raw) == 16 {
		if id, err := uuid.FromBytes(raw); err == nil {
			return id.String()
		}
	}
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(fp)).String()
}
