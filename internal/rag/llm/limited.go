package llm

import (
	"context"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"golang.org/x/time/rate"
)

type limitedProvider struct {
	next    Provider
	limiter *rate.Limiter
}

// Limited throttles outbound calls to next with a shared token bucket.
func Limited(next Provider, limiter *rate.Limiter) Provider {
	if limiter == nil {
		return next
	}
	return &limitedProvider{next: next, limiter: limiter}
}

func (l *limitedProvider) Complete(ctx context.Context, prompt string) (GenerationResult, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		// Wait fails early when the deadline cannot be met
		if ctx.Err() == nil {
			return nil, appErrors.Wrap(appErrors.KindRateLimited, appErrors.ErrRateLimited.Message, err)
		}
		return nil, appErrors.Wrap(appErrors.KindGeneration, "generation cancelled", ctx.Err())
	}
	return l.next.Complete(ctx, prompt)
}
