package rag_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/rag"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
	"github.com/akolanti/FinalGuardian/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/FinalGuardian/internal/rag/evaluator"
	"github.com/akolanti/FinalGuardian/internal/rag/ingest"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/internal/rag/quiz"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB/localDB"
	"github.com/akolanti/FinalGuardian/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizReply = "Q1: Where does photosynthesis happen?\na) Mitochondria\nb) Chloroplasts\nA1: b) Chloroplasts\n" +
	"Q2: What pigment absorbs light?\na) Chlorophyll\nb) Keratin\nA2: a) Chlorophyll\n" +
	"Q3: Name the gas released by photosynthesis.\nA3: Oxygen"

// about 1200 characters of notes
func biologyNotes() string {
	topics := []string{"photosynthesis", "chloroplasts", "chlorophyll", "glucose", "oxygen", "stomata", "carbon", "sunlight"}
	var b strings.Builder
	for i := 0; b.Len() < 1200; i++ {
		fmt.Fprintf(&b, "Fact %d: %s plays a role in how plants turn light into stored energy. ", i, topics[i%len(topics)])
	}
	return b.String()
}

func ctxWithTrace() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func newLocalService(t *testing.T, provider llm.Provider) rag.Service {
	t.Helper()
	index, err := localDB.NewStore(t.TempDir(), hashEmbedding.New(512))
	require.NoError(t, err)

	return rag.NewService(rag.Dependencies{
		Splitter:    ingest.NewSplitter(500, 100),
		Ledger:      dedup.NewFileLedger(filepath.Join(t.TempDir(), "uploaded_hashes.txt")),
		Index:       index,
		Synthesizer: quiz.NewSynthesizer(provider, quiz.Options{}),
		Grader:      evaluator.NewEvaluator(provider),
		Pool:        worker.NewPool(4),
	})
}

func TestEndToEnd_UploadQuizEvaluate(t *testing.T) {
	ctx := ctxWithTrace()
	provider := &MockLLM{OnComplete: func(ctx context.Context, prompt string) (llm.GenerationResult, error) {
		if strings.Contains(prompt, "Student's Answer:") {
			return llm.Text("Result: Correct\nExplanation: Matches the reference answer."), nil
		}
		return llm.StructuredMessage{Role: "assistant", Content: quizReply}, nil
	}}
	svc := newLocalService(t, provider)

	report, err := svc.HandleUpload(ctx, ingest.FromText("bio.txt", biologyNotes()))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Accepted, 3)
	assert.Zero(t, report.Skipped)

	result, err := svc.HandleQuizRequest(ctx, "photosynthesis")
	require.NoError(t, err)
	require.Len(t, result.Questions, 3)
	for i, q := range result.Questions {
		assert.Equal(t, i, q.Id)
		assert.NotEmpty(t, q.QuestionText)
		assert.NotEmpty(t, q.AnswerText)
	}
	assert.Contains(t, result.Questions[0].QuestionText, "b) Chloroplasts")

	// the prompt carries retrieved notes, bounded by the context budget
	require.Len(t, provider.Prompts, 1)
	assert.Contains(t, provider.Prompts[0], "plays a role")

	first := result.Questions[0]
	graded, err := svc.HandleEvaluationBatch(ctx, []quizModel.AnswerSubmission{{
		QuestionText:    first.QuestionText,
		ReferenceAnswer: first.AnswerText,
		CandidateAnswer: first.AnswerText,
	}})
	require.NoError(t, err)
	require.Len(t, graded, 1)
	assert.Equal(t, quizModel.Correct, graded[0].Verdict)
	assert.False(t, graded[0].Flagged)
	assert.Equal(t, first.QuestionText, graded[0].QuestionText)
	assert.Contains(t, provider.Prompts[1], first.AnswerText)
}

func TestHandleUpload_Idempotent(t *testing.T) {
	ctx := ctxWithTrace()
	svc := newLocalService(t, &MockLLM{})
	notes := biologyNotes()

	first, err := svc.HandleUpload(ctx, ingest.FromText("bio.txt", notes))
	require.NoError(t, err)
	require.Greater(t, first.Accepted, 0)

	second, err := svc.HandleUpload(ctx, ingest.FromText("bio-copy.txt", notes))
	require.NoError(t, err)
	assert.Zero(t, second.Accepted)
	assert.Equal(t, first.Accepted+first.Skipped, second.Skipped)
}

func TestHandleUpload_Failures(t *testing.T) {
	ctx := ctxWithTrace()
	doc := ingest.FromText("bio.txt", biologyNotes())

	t.Run("empty document", func(t *testing.T) {
		svc := rag.NewService(rag.Dependencies{Ledger: NewMockLedger(), Index: &MockIndex{}})
		_, err := svc.HandleUpload(ctx, ingest.FromText("blank.txt", "  \n "))
		assert.ErrorIs(t, err, appErrors.ErrEmptyDocument)
	})

	t.Run("insert failure records nothing", func(t *testing.T) {
		ledger := NewMockLedger()
		index := &MockIndex{OnInsert: func(ctx context.Context, chunks []commonModels.Chunk) error {
			return errors.New("disk full")
		}}
		svc := rag.NewService(rag.Dependencies{Ledger: ledger, Index: index})

		_, err := svc.HandleUpload(ctx, doc)
		assert.ErrorIs(t, err, appErrors.ErrIndexFailed)
		assert.Empty(t, ledger.Known)
	})

	t.Run("ledger unavailable inserts nothing", func(t *testing.T) {
		ledger := &MockLedger{OnContains: func(ctx context.Context, fp commonModels.Fingerprint) (bool, error) {
			return false, appErrors.Wrap(appErrors.KindLedgerUnavailable, "dedup ledger unavailable", errors.New("permission denied"))
		}}
		index := &MockIndex{}
		svc := rag.NewService(rag.Dependencies{Ledger: ledger, Index: index})

		_, err := svc.HandleUpload(ctx, doc)
		assert.ErrorIs(t, err, appErrors.ErrLedgerUnavailable)
		assert.Empty(t, index.Inserted)
	})

	t.Run("embedding quota surfaces as rate limit", func(t *testing.T) {
		index := &MockIndex{OnInsert: func(ctx context.Context, chunks []commonModels.Chunk) error {
			return appErrors.ErrRateLimited
		}}
		svc := rag.NewService(rag.Dependencies{Ledger: NewMockLedger(), Index: index})

		_, err := svc.HandleUpload(ctx, doc)
		assert.ErrorIs(t, err, appErrors.ErrRateLimited)
	})
}

func TestHandleQuizRequest_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		topic       string
		onSearch    func(ctx context.Context, q string, k int) ([]commonModels.Chunk, error)
		onComplete  func(ctx context.Context, prompt string) (llm.GenerationResult, error)
		expectedErr error
		questions   int
	}{
		{
			name:  "Success",
			topic: "cells",
			onSearch: func(ctx context.Context, q string, k int) ([]commonModels.Chunk, error) {
				assert.Equal(t, config.QuizSearchK, k)
				return []commonModels.Chunk{{Content: "Cells are the unit of life."}}, nil
			},
			onComplete: func(ctx context.Context, prompt string) (llm.GenerationResult, error) {
				return llm.Text(quizReply), nil
			},
			questions: 3,
		},
		{
			name:        "Blank_Topic",
			topic:       "   ",
			expectedErr: appErrors.New(appErrors.KindBadRequest, ""),
		},
		{
			name:  "No_Notes",
			topic: "cells",
			onSearch: func(ctx context.Context, q string, k int) ([]commonModels.Chunk, error) {
				return nil, nil
			},
			expectedErr: appErrors.ErrNoNotesForTopic,
		},
		{
			name:  "Only_Blank_Notes",
			topic: "cells",
			onSearch: func(ctx context.Context, q string, k int) ([]commonModels.Chunk, error) {
				return []commonModels.Chunk{{Content: "  "}, {Content: "\n"}}, nil
			},
			expectedErr: appErrors.ErrNoNotesForTopic,
		},
		{
			name:  "Search_Failure",
			topic: "cells",
			onSearch: func(ctx context.Context, q string, k int) ([]commonModels.Chunk, error) {
				return nil, errors.New("qdrant unreachable")
			},
			expectedErr: appErrors.ErrIndexFailed,
		},
		{
			name:  "Rate_Limited",
			topic: "cells",
			onSearch: func(ctx context.Context, q string, k int) ([]commonModels.Chunk, error) {
				return []commonModels.Chunk{{Content: "Cells"}}, nil
			},
			onComplete: func(ctx context.Context, prompt string) (llm.GenerationResult, error) {
				return nil, appErrors.ErrRateLimited
			},
			expectedErr: appErrors.ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index := &MockIndex{OnSearch: tt.onSearch}
			provider := &MockLLM{OnComplete: tt.onComplete}
			svc := rag.NewService(rag.Dependencies{
				Ledger:      NewMockLedger(),
				Index:       index,
				Synthesizer: quiz.NewSynthesizer(provider, quiz.Options{}),
			})

			result, err := svc.HandleQuizRequest(ctxWithTrace(), tt.topic)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, result.Questions, tt.questions)
		})
	}
}

func TestHandleEvaluationBatch_PreservesOrder(t *testing.T) {
	grader := &MockGrader{OnEvaluate: func(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
		time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		return quizModel.EvaluationResult{QuestionText: sub.QuestionText, Verdict: quizModel.Correct, Content: "Result: Correct"}, nil
	}}
	svc := rag.NewService(rag.Dependencies{Grader: grader, Pool: worker.NewPool(4)})

	subs := make([]quizModel.AnswerSubmission, 25)
	for i := range subs {
		subs[i] = quizModel.AnswerSubmission{QuestionText: fmt.Sprintf("Q%d", i+1), ReferenceAnswer: "x", CandidateAnswer: "x"}
	}

	results, err := svc.HandleEvaluationBatch(ctxWithTrace(), subs)
	require.NoError(t, err)
	require.Len(t, results, len(subs))
	for i, r := range results {
		assert.Equal(t, subs[i].QuestionText, r.QuestionText)
	}
}

func TestHandleEvaluationBatch_Failures(t *testing.T) {
	subs := []quizModel.AnswerSubmission{
		{QuestionText: "Q1", ReferenceAnswer: "a", CandidateAnswer: "a"},
		{QuestionText: "Q2", ReferenceAnswer: "b", CandidateAnswer: "c"},
	}

	t.Run("rate limit fails the batch", func(t *testing.T) {
		grader := &MockGrader{OnEvaluate: func(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
			if sub.QuestionText == "Q2" {
				return quizModel.EvaluationResult{}, appErrors.ErrRateLimited
			}
			return quizModel.EvaluationResult{QuestionText: sub.QuestionText, Verdict: quizModel.Correct}, nil
		}}
		svc := rag.NewService(rag.Dependencies{Grader: grader})

		_, err := svc.HandleEvaluationBatch(ctxWithTrace(), subs)
		assert.ErrorIs(t, err, appErrors.ErrRateLimited)
		assert.Equal(t, 429, appErrors.HTTPStatus(err))
	})

	t.Run("other failure flags one result", func(t *testing.T) {
		grader := &MockGrader{OnEvaluate: func(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
			if sub.QuestionText == "Q2" {
				return quizModel.EvaluationResult{}, appErrors.ErrGenerationFailed
			}
			return quizModel.EvaluationResult{QuestionText: sub.QuestionText, Verdict: quizModel.Correct}, nil
		}}
		svc := rag.NewService(rag.Dependencies{Grader: grader})

		results, err := svc.HandleEvaluationBatch(ctxWithTrace(), subs)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.False(t, results[0].Flagged)
		assert.True(t, results[1].Flagged)
		assert.Equal(t, "Q2", results[1].QuestionText)
		assert.Equal(t, quizModel.Incorrect, results[1].Verdict)
	})

	t.Run("empty batch", func(t *testing.T) {
		svc := rag.NewService(rag.Dependencies{Grader: &MockGrader{}})
		results, err := svc.HandleEvaluationBatch(ctxWithTrace(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestHandleEvaluationBatch_UngradedReply(t *testing.T) {
	provider := &MockLLM{OnComplete: func(ctx context.Context, prompt string) (llm.GenerationResult, error) {
		return llm.Text("Hmm, hard to say."), nil
	}}
	svc := newLocalService(t, provider)

	results, err := svc.HandleEvaluationBatch(ctxWithTrace(), []quizModel.AnswerSubmission{
		{QuestionText: "Q1: ?", ReferenceAnswer: "A1: !", CandidateAnswer: "!"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Flagged)
	assert.Equal(t, "Hmm, hard to say.", results[0].Content)
	// first try plus one retry
	assert.Len(t, provider.Prompts, 2)
}

func TestHandleChat(t *testing.T) {
	t.Run("answer", func(t *testing.T) {
		svc := rag.NewService(rag.Dependencies{Tutor: &MockTutor{OnChat: func(ctx context.Context, message string) (string, error) {
			return "Osmosis is diffusion of water.", nil
		}}})
		out, err := svc.HandleChat(ctxWithTrace(), "what is osmosis")
		require.NoError(t, err)
		assert.Equal(t, "Osmosis is diffusion of water.", out)
	})

	t.Run("missing message", func(t *testing.T) {
		svc := rag.NewService(rag.Dependencies{Tutor: &MockTutor{}})
		_, err := svc.HandleChat(ctxWithTrace(), " ")
		assert.Equal(t, appErrors.KindBadRequest, appErrors.KindOf(err))
	})

	t.Run("rate limited", func(t *testing.T) {
		svc := rag.NewService(rag.Dependencies{Tutor: &MockTutor{OnChat: func(ctx context.Context, message string) (string, error) {
			return "", appErrors.ErrRateLimited
		}}})
		_, err := svc.HandleChat(ctxWithTrace(), "hi")
		assert.ErrorIs(t, err, appErrors.ErrRateLimited)
	})

	t.Run("unclassified failure", func(t *testing.T) {
		svc := rag.NewService(rag.Dependencies{Tutor: &MockTutor{OnChat: func(ctx context.Context, message string) (string, error) {
			return "", errors.New("boom")
		}}})
		_, err := svc.HandleChat(ctxWithTrace(), "hi")
		assert.ErrorIs(t, err, appErrors.ErrGenerationFailed)
	})
}
