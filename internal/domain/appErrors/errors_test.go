package appErrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesOnKind(t *testing.T) {
	wrapped := fmt.Errorf("quiz: %w", Wrap(KindRateLimited, "slow down", errors.New("429")))

	assert.ErrorIs(t, wrapped, ErrRateLimited)
	assert.NotErrorIs(t, wrapped, ErrGenerationFailed)
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
	assert.Equal(t, "slow down", PublicMessage(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrEmptyDocument, http.StatusBadRequest},
		{ErrUnsupportedDocument, http.StatusBadRequest},
		{ErrNoContext, http.StatusBadRequest},
		{ErrNoNotesForTopic, http.StatusBadRequest},
		{New(KindBadRequest, "Missing topic."), http.StatusBadRequest},
		{New(KindUnauthorized, "Unauthorized"), http.StatusUnauthorized},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrMalformedGeneration, http.StatusBadGateway},
		{ErrGenerationFailed, http.StatusBadGateway},
		{ErrLedgerUnavailable, http.StatusInternalServerError},
		{ErrIndexFailed, http.StatusInternalServerError},
		{errors.New("raw"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUnclassifiedErrorsStayPrivate(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.3:6334: connection refused")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Internal Server Error", PublicMessage(err))
}

func TestError_IncludesCause(t *testing.T) {
	err := Wrap(KindIndex, "index store failed", errors.New("timeout"))
	assert.Equal(t, "[INDEX_FAILURE] index store failed: timeout", err.Error())
	assert.Equal(t, "[NO_CONTEXT] no content found to generate quiz", ErrNoContext.Error())
}
