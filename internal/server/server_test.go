package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/handlers"
	"github.com/akolanti/FinalGuardian/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noNotesService struct{}

func (noNotesService) HandleUpload(ctx context.Context, doc commonModels.Document) (quizModel.UploadReport, error) {
	return quizModel.UploadReport{}, appErrors.ErrEmptyDocument
}

func (noNotesService) HandleQuizRequest(ctx context.Context, topic string) (quizModel.QuizResult, error) {
	return quizModel.QuizResult{}, appErrors.ErrNoNotesForTopic
}

func (noNotesService) HandleEvaluationBatch(ctx context.Context, subs []quizModel.AnswerSubmission) ([]quizModel.EvaluationResult, error) {
	return []quizModel.EvaluationResult{}, nil
}

func (noNotesService) HandleChat(ctx context.Context, message string) (string, error) {
	return "hello", nil
}

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	router := NewRouter(handlers.NewRequestHandler(noNotesService{}, t.TempDir()), middleware.New(middleware.Options{AuthToken: token}))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Endpoints(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		want        int
	}{
		{"ping", http.MethodGet, "/ping", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"quiz without notes", http.MethodPost, "/generate-quiz", "topic=cells", "application/x-www-form-urlencoded", http.StatusBadRequest},
		{"evaluate", http.MethodPost, "/evaluate-all", `{"answers":[]}`, "application/json", http.StatusOK},
		{"chat", http.MethodPost, "/chat", `{"message":"hi"}`, "application/json", http.StatusOK},
		{"wrong method", http.MethodGet, "/chat", "", "", http.StatusMethodNotAllowed},
		{"unknown", http.MethodGet, "/status/1", "", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRouter_AuthOnApiOnly(t *testing.T) {
	srv := newTestServer(t, "token")

	resp, err := srv.Client().Get(srv.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
