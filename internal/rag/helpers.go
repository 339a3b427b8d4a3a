package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

// asAppError keeps errors that are already classified and wraps the rest
// under kind. Quota errors from any dependency stay RATE_LIMITED.
func asAppError(err error, kind appErrors.Kind, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if llm.IsRateLimited(err) {
		return llm.ClassifyError(err)
	}
	return appErrors.Wrap(kind, message, err)
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(appErrors.KindOf(err))
}

func (s *service) executeDedupStep(ctx context.Context, log *logger_i.Logger, chunks []commonModels.Chunk) ([]commonModels.Chunk, int, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("ledger_lookup", time.Since(start)) }()

	fresh, skipped, err := dedup.Filter(ctx, s.ledger, chunks)
	if err != nil {
		log.Error("Ledger lookup failed", "error", err)
		return nil, 0, asAppError(err, appErrors.KindLedgerUnavailable, appErrors.ErrLedgerUnavailable.Message)
	}
	log.Debug("Dedup filter", "fresh", len(fresh), "skipped", skipped)
	return fresh, skipped, nil
}

func (s *service) executeInsertStep(ctx context.Context, log *logger_i.Logger, chunks []commonModels.Chunk) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_insert", time.Since(start)) }()

	if err := s.index.Insert(ctx, chunks); err != nil {
		log.Error("Index insert failed", "chunks", len(chunks), "error", err)
		return asAppError(err, appErrors.KindIndex, appErrors.ErrIndexFailed.Message)
	}
	return nil
}

func (s *service) executeRecordStep(ctx context.Context, log *logger_i.Logger, chunks []commonModels.Chunk) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("ledger_record", time.Since(start)) }()

	if err := s.ledger.Record(ctx, dedup.Fingerprints(chunks)); err != nil {
		log.Error("Ledger record failed", "error", err)
		return asAppError(err, appErrors.KindLedgerUnavailable, appErrors.ErrLedgerUnavailable.Message)
	}
	return nil
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, query string, k int) ([]commonModels.Chunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	chunks, err := s.index.Search(ctx, query, k)
	if err != nil {
		log.Error("Index search failed", "error", err)
		return nil, asAppError(err, appErrors.KindIndex, appErrors.ErrIndexFailed.Message)
	}
	return chunks, nil
}

func allBlank(chunks []commonModels.Chunk) bool {
	for _, c := range chunks {
		if !isBlank(c.Content) {
			return false
		}
	}
	return true
}
