package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/internal/rag/dedup"
	"github.com/akolanti/FinalGuardian/internal/rag/ingest"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/internal/rag/quiz"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
	"github.com/akolanti/FinalGuardian/internal/worker"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

/*
Service is the only thing the HTTP layer, the CLI and the MCP server talk to.
The private service struct owns the clients (ledger, index, model) and every
error leaving it is an *appErrors.AppError. Dependencies come in through
NewService so tests can hand in mocks.
*/
type Service interface {
	HandleUpload(ctx context.Context, doc commonModels.Document) (quizModel.UploadReport, error)
	HandleQuizRequest(ctx context.Context, topic string) (quizModel.QuizResult, error)
	HandleEvaluationBatch(ctx context.Context, submissions []quizModel.AnswerSubmission) ([]quizModel.EvaluationResult, error)
	HandleChat(ctx context.Context, message string) (string, error)
}

type Grader interface {
	Evaluate(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error)
}

type Chatter interface {
	Chat(ctx context.Context, message string) (string, error)
}

type Dependencies struct {
	Splitter    *ingest.Splitter
	Ledger      dedup.Ledger
	Index       vectorDB.IndexStore
	Synthesizer *quiz.Synthesizer
	Grader      Grader
	Tutor       Chatter
	Pool        *worker.Pool
}

type service struct {
	splitter *ingest.Splitter
	ledger   dedup.Ledger
	index    vectorDB.IndexStore
	synth    *quiz.Synthesizer
	grader   Grader
	tutor    Chatter
	pool     *worker.Pool
	logger   *logger_i.Logger
}

func NewService(deps Dependencies) Service {
	if deps.Splitter == nil {
		deps.Splitter = ingest.NewSplitter(config.DefaultChunkSize, config.DefaultChunkOverlap)
	}
	if deps.Pool == nil {
		deps.Pool = worker.NewPool(config.DefaultEvalConcurrency)
	}
	return &service{
		splitter: deps.Splitter,
		ledger:   deps.Ledger,
		index:    deps.Index,
		synth:    deps.Synthesizer,
		grader:   deps.Grader,
		tutor:    deps.Tutor,
		pool:     deps.Pool,
		logger:   logger_i.NewLogger("RAG Service"),
	}
}

// HandleUpload indexes the chunks of doc that were never indexed before.
// Chunks go into the index first and into the ledger second, so a failed
// insert leaves nothing recorded and the same upload can be retried.
func (s *service) HandleUpload(ctx context.Context, doc commonModels.Document) (report quizModel.UploadReport, err error) {
	log := s.logger.WithTrace(ctx).With("document", doc.Name)
	start := time.Now()
	defer func() { metrics.CaptureRequestMetrics("upload", statusLabel(err), time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, config.RequestProcessTimeout)
	defer cancel()

	chunks, err := s.splitter.Split(doc)
	if err != nil {
		log.Warn("Nothing to index", "error", err)
		return quizModel.UploadReport{}, asAppError(err, appErrors.KindEmptyDocument, appErrors.ErrEmptyDocument.Message)
	}

	fresh, skipped, err := s.executeDedupStep(ctx, log, chunks)
	if err != nil {
		return quizModel.UploadReport{}, err
	}
	report = quizModel.UploadReport{DocumentId: doc.Id, Accepted: len(fresh), Skipped: skipped}

	if len(fresh) > 0 {
		if err = s.executeInsertStep(ctx, log, fresh); err != nil {
			return quizModel.UploadReport{}, err
		}
		if err = s.executeRecordStep(ctx, log, fresh); err != nil {
			return quizModel.UploadReport{}, err
		}
	}

	metrics.CaptureIngest(report.Accepted, report.Skipped)
	log.Info("Upload processed", "accepted", report.Accepted, "skipped", report.Skipped)
	return report, nil
}

func (s *service) HandleQuizRequest(ctx context.Context, topic string) (result quizModel.QuizResult, err error) {
	log := s.logger.WithTrace(ctx)
	start := time.Now()
	defer func() { metrics.CaptureRequestMetrics("generate_quiz", statusLabel(err), time.Since(start)) }()

	if isBlank(topic) {
		return quizModel.QuizResult{}, appErrors.New(appErrors.KindBadRequest, "Missing topic.")
	}

	ctx, cancel := context.WithTimeout(ctx, config.RequestProcessTimeout)
	defer cancel()

	chunks, err := s.executeVectorSearchStep(ctx, log, topic, config.QuizSearchK)
	if err != nil {
		return quizModel.QuizResult{}, err
	}
	if len(chunks) == 0 || allBlank(chunks) {
		return quizModel.QuizResult{}, appErrors.ErrNoNotesForTopic
	}

	result, err = s.synth.Generate(ctx, chunks, quizModel.Standard)
	if err != nil {
		log.Error("Quiz generation failed", "error", err)
		return result, asAppError(err, appErrors.KindGeneration, appErrors.ErrGenerationFailed.Message)
	}
	log.Info("Quiz generated", "questions", len(result.Questions), "dropped", result.DroppedBlocks)
	return result, nil
}

// HandleEvaluationBatch grades every submission concurrently and returns the
// results in submission order. A quota error fails the whole batch; any other
// failure only flags that one result.
func (s *service) HandleEvaluationBatch(ctx context.Context, submissions []quizModel.AnswerSubmission) (results []quizModel.EvaluationResult, err error) {
	log := s.logger.WithTrace(ctx)
	start := time.Now()
	defer func() { metrics.CaptureRequestMetrics("evaluate_all", statusLabel(err), time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, config.RequestProcessTimeout)
	defer cancel()

	results, err = worker.Run(ctx, s.pool, submissions, func(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
		res, err := s.grader.Evaluate(ctx, sub)
		if err == nil {
			return res, nil
		}
		if llm.IsRateLimited(err) || ctx.Err() != nil {
			return res, err
		}
		log.Warn("Grading failed, flagging result", "error", err)
		metrics.IncrementUngraded()
		return quizModel.EvaluationResult{
			QuestionText: sub.QuestionText,
			Verdict:      quizModel.Incorrect,
			Explanation:  "Grading failed: " + appErrors.PublicMessage(err),
			Flagged:      true,
		}, nil
	})
	if err != nil {
		log.Error("Evaluation batch failed", "error", err)
		return nil, asAppError(err, appErrors.KindGeneration, appErrors.ErrGenerationFailed.Message)
	}
	return results, nil
}

func (s *service) HandleChat(ctx context.Context, message string) (answer string, err error) {
	start := time.Now()
	defer func() { metrics.CaptureRequestMetrics("chat", statusLabel(err), time.Since(start)) }()

	if isBlank(message) {
		return "", appErrors.New(appErrors.KindBadRequest, "Missing user input.")
	}

	ctx, cancel := context.WithTimeout(ctx, config.RequestProcessTimeout)
	defer cancel()

	answer, err = s.tutor.Chat(ctx, message)
	if err != nil {
		s.logger.WithTrace(ctx).Error("Chat failed", "error", err)
		return "", asAppError(err, appErrors.KindGeneration, appErrors.ErrGenerationFailed.Message)
	}
	return answer, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
