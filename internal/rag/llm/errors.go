package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsRateLimited reports whether a provider refused the call because of quota.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, appErrors.ErrRateLimited) {
		return true
	}
	var oaErr *openai.Error
	if errors.As(err, &oaErr) && oaErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) && gErr.Code == http.StatusTooManyRequests {
		return true
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return true
	}
	return false
}

// ClassifyError maps a provider error onto the application taxonomy.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if IsRateLimited(err) {
		return appErrors.Wrap(appErrors.KindRateLimited, appErrors.ErrRateLimited.Message, err)
	}
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(appErrors.KindGeneration, "generative service timed out", err)
	}
	return appErrors.Wrap(appErrors.KindGeneration, appErrors.ErrGenerationFailed.Message, err)
}
