package dedup

import (
	"context"

	"github.com/akolanti/FinalGuardian/internal/data/redisStore"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

// RedisLedger keeps the fingerprints in a single Redis set.
type RedisLedger struct {
	store  *redisStore.Store
	key    string
	logger *logger_i.Logger
}

func NewRedisLedger(store *redisStore.Store, key string) *RedisLedger {
	return &RedisLedger{store: store, key: key, logger: logger_i.NewLogger("Redis Ledger")}
}

func (l *RedisLedger) Contains(ctx context.Context, fp commonModels.Fingerprint) (bool, error) {
	ok, err := l.store.SetIsMember(ctx, l.key, string(fp))
	if err != nil && !l.store.IsNil(err) {
		l.logger.WithTrace(ctx).Error("ledger lookup failed", "error", err)
		return false, appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	return ok, nil
}

func (l *RedisLedger) ContainsAll(ctx context.Context, fps []commonModels.Fingerprint) ([]bool, error) {
	members := make([]string, 0, len(fps))
	for _, fp := range fps {
		members = append(members, string(fp))
	}
	known, err := l.store.SetAreMembers(ctx, l.key, members...)
	if err != nil {
		l.logger.WithTrace(ctx).Error("ledger batch lookup failed", "error", err, "count", len(fps))
		return nil, appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	return known, nil
}

func (l *RedisLedger) Record(ctx context.Context, fps []commonModels.Fingerprint) error {
	members := make([]string, 0, len(fps))
	for _, fp := range fps {
		members = append(members, string(fp))
	}
	if err := l.store.SetAdd(ctx, l.key, members...); err != nil {
		l.logger.WithTrace(ctx).Error("ledger append failed", "error", err)
		return appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", err)
	}
	return nil
}
