package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

type Options struct {
	MaxContextLength int
	// Strict turns "nothing parsed" into ErrMalformedGeneration.
	Strict bool
}

type Synthesizer struct {
	provider   llm.Provider
	maxContext int
	strict     bool
	logger     *logger_i.Logger
}

func NewSynthesizer(provider llm.Provider, opts Options) *Synthesizer {
	if opts.MaxContextLength <= 0 {
		opts.MaxContextLength = config.DefaultMaxContextLength
	}
	return &Synthesizer{
		provider:   provider,
		maxContext: opts.MaxContextLength,
		strict:     opts.Strict,
		logger:     logger_i.NewLogger("Quiz Synthesizer"),
	}
}

// BuildContext concatenates chunks in rank order, each followed by a newline,
// and stops at the first chunk that would push the total past maxLen.
func BuildContext(chunks []commonModels.Chunk, maxLen int) string {
	var b strings.Builder
	total := 0
	for _, c := range chunks {
		n := utf8.RuneCountInString(c.Content)
		if total+n > maxLen {
			break
		}
		b.WriteString(c.Content)
		b.WriteByte('\n')
		total += n + 1
	}
	return b.String()
}

func prompt(mode quizModel.Mode, notes string) string {
	if mode == quizModel.SingleShortAnswer {
		return fmt.Sprintf(singleShortAnswerTemplate, notes)
	}
	return fmt.Sprintf(standardTemplate, notes)
}

// GenerateRaw runs the model and returns its normalized text, unparsed.
func (s *Synthesizer) GenerateRaw(ctx context.Context, chunks []commonModels.Chunk, mode quizModel.Mode) (string, error) {
	log := s.logger.WithTrace(ctx)

	quizContext := BuildContext(chunks, s.maxContext)
	if strings.TrimSpace(quizContext) == "" {
		return "", appErrors.ErrNoContext
	}

	start := time.Now()
	raw, err := llm.CompleteText(ctx, s.provider, prompt(mode, quizContext))
	metrics.CaptureExecutionMetrics("llm_quiz_generation", time.Since(start))
	if err != nil {
		log.Error("Quiz generation failed", "mode", mode.String(), "error", err)
		return "", llm.ClassifyError(err)
	}
	return raw, nil
}

func (s *Synthesizer) Generate(ctx context.Context, chunks []commonModels.Chunk, mode quizModel.Mode) (quizModel.QuizResult, error) {
	log := s.logger.WithTrace(ctx)

	raw, err := s.GenerateRaw(ctx, chunks, mode)
	if err != nil {
		return quizModel.QuizResult{}, err
	}

	questions, dropped := ParseQuiz(raw)
	if dropped > 0 {
		metrics.AddDroppedBlocks(dropped)
		log.Warn("Dropped malformed question blocks", "dropped", dropped, "kept", len(questions))
	}

	result := quizModel.QuizResult{Questions: questions, DroppedBlocks: dropped, Raw: raw}
	if len(questions) == 0 && strings.TrimSpace(raw) != "" && s.strict {
		return result, appErrors.ErrMalformedGeneration
	}
	return result, nil
}
