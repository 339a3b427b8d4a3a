package dedup

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
)

// Ledger is the append-only set of fingerprints already inserted into the index.
// Nothing is ever evicted.
type Ledger interface {
	Contains(ctx context.Context, fp commonModels.Fingerprint) (bool, error)
	// Record is idempotent: recording a known fingerprint is a no-op.
	Record(ctx context.Context, fps []commonModels.Fingerprint) error
}

// BatchLedger is implemented by ledgers that can answer many lookups in one
// round trip. known[i] answers fps[i].
type BatchLedger interface {
	ContainsAll(ctx context.Context, fps []commonModels.Fingerprint) (known []bool, err error)
}

// Fingerprint is a pure function of the trimmed content.
func Fingerprint(content string) commonModels.Fingerprint {
	sum := md5.Sum([]byte(strings.TrimSpace(content)))
	return commonModels.Fingerprint(hex.EncodeToString(sum[:]))
}

// Filter keeps the chunks whose fingerprint is neither in the ledger nor seen
// earlier in the same batch. skipped counts everything else.
func Filter(ctx context.Context, ledger Ledger, chunks []commonModels.Chunk) (fresh []commonModels.Chunk, skipped int, err error) {
	seen := make(map[commonModels.Fingerprint]struct{}, len(chunks))
	var candidates []commonModels.Chunk
	for _, c := range chunks {
		if _, dup := seen[c.SourceHash]; dup {
			skipped++
			continue
		}
		seen[c.SourceHash] = struct{}{}
		candidates = append(candidates, c)
	}

	known, err := lookup(ctx, ledger, Fingerprints(candidates))
	if err != nil {
		return nil, 0, err
	}
	for i, c := range candidates {
		if known[i] {
			skipped++
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, skipped, nil
}

func lookup(ctx context.Context, ledger Ledger, fps []commonModels.Fingerprint) ([]bool, error) {
	if len(fps) == 0 {
		return nil, nil
	}
	if batch, ok := ledger.(BatchLedger); ok {
		known, err := batch.ContainsAll(ctx, fps)
		if err != nil {
			return nil, err
		}
		if len(known) != len(fps) {
			return nil, appErrors.New(appErrors.KindLedgerUnavailable, "dedup ledger returned a short batch")
		}
		return known, nil
	}

	known := make([]bool, len(fps))
	for i, fp := range fps {
		ok, err := ledger.Contains(ctx, fp)
		if err != nil {
			return nil, err
		}
		known[i] = ok
	}
	return known, nil
}

func Fingerprints(chunks []commonModels.Chunk) []commonModels.Fingerprint {
	fps := make([]commonModels.Fingerprint, 0, len(chunks))
	for _, c := range chunks {
		fps = append(fps, c.SourceHash)
	}
	return fps
}
