package mcpServer

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	quiz    quizModel.QuizResult
	results []quizModel.EvaluationResult
	err     error
	topic   string
}

func (s *stubService) HandleUpload(ctx context.Context, doc commonModels.Document) (quizModel.UploadReport, error) {
	return quizModel.UploadReport{}, s.err
}

func (s *stubService) HandleQuizRequest(ctx context.Context, topic string) (quizModel.QuizResult, error) {
	s.topic = topic
	return s.quiz, s.err
}

func (s *stubService) HandleEvaluationBatch(ctx context.Context, subs []quizModel.AnswerSubmission) ([]quizModel.EvaluationResult, error) {
	return s.results, s.err
}

func (s *stubService) HandleChat(ctx context.Context, message string) (string, error) {
	return "", s.err
}

type echoTool struct {
	err error
}

func (e *echoTool) Name() string        { return "noteguide_qa" }
func (e *echoTool) Description() string { return "echo" }
func (e *echoTool) Invoke(ctx context.Context, input string) (string, error) {
	return "notes about " + input, e.err
}

func TestNewServer_RequiresService(t *testing.T) {
	_, err := NewServer(nil)
	require.Error(t, err)
}

func TestServer_toolHandler(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(&stubService{}, &echoTool{})
	require.NoError(t, err)

	t.Run("returns the tool text", func(t *testing.T) {
		_, out, err := server.toolHandler(&echoTool{})(ctx, nil, ToolInput{Input: "osmosis"})
		require.NoError(t, err)
		assert.Equal(t, "notes about osmosis", out.Text)
	})

	t.Run("passes tool errors through", func(t *testing.T) {
		_, _, err := server.toolHandler(&echoTool{err: errors.New("index down")})(ctx, nil, ToolInput{Input: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index down")
	})
}

func TestServer_handleGenerateQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("returns questions", func(t *testing.T) {
		svc := &stubService{quiz: quizModel.QuizResult{Questions: []quizModel.QuizQuestion{
			{Id: 0, QuestionText: "Q1: What is ATP?", AnswerText: "A1: Energy currency"},
		}}}
		server, err := NewServer(svc)
		require.NoError(t, err)

		_, out, err := server.handleGenerateQuiz(ctx, nil, QuizInput{Topic: "energy"})
		require.NoError(t, err)
		assert.Equal(t, "energy", svc.topic)
		require.Len(t, out.Questions, 1)
		assert.Equal(t, "A1: Energy currency", out.Questions[0].AnswerText)
	})

	t.Run("no notes", func(t *testing.T) {
		server, err := NewServer(&stubService{err: appErrors.ErrNoNotesForTopic})
		require.NoError(t, err)

		_, _, err = server.handleGenerateQuiz(ctx, nil, QuizInput{Topic: "energy"})
		assert.ErrorIs(t, err, appErrors.ErrNoNotesForTopic)
	})
}

func TestServer_handleEvaluate(t *testing.T) {
	svc := &stubService{results: []quizModel.EvaluationResult{
		{QuestionText: "Q1", Verdict: quizModel.Correct},
		{QuestionText: "Q2", Verdict: quizModel.Incorrect},
	}}
	server, err := NewServer(svc)
	require.NoError(t, err)

	_, out, err := server.handleEvaluate(context.Background(), nil, EvaluateInput{Answers: []quizModel.AnswerSubmission{
		{QuestionText: "Q1"}, {QuestionText: "Q2"},
	}})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, quizModel.Incorrect, out.Results[1].Verdict)
}
