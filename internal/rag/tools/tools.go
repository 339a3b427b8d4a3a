package tools

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/internal/rag/quiz"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
)

const (
	RetrievalToolName = "noteguide_qa"
	QuizToolName      = "quiz_generator"
)

// Tool is something the tutor can call with a single line of input.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input string) (string, error)
}

type retrievalTool struct {
	index    vectorDB.IndexStore
	k        int
	maxChars int
}

// NewRetrievalTool answers from the notes: the top passages joined by blank
// lines and cut to a fixed number of characters.
func NewRetrievalTool(index vectorDB.IndexStore) Tool {
	return &retrievalTool{index: index, k: config.RetrievalToolSearchK, maxChars: config.RetrievalToolMaxChars}
}

func (t *retrievalTool) Name() string { return RetrievalToolName }

func (t *retrievalTool) Description() string {
	return "Use this tool to answer questions based on the uploaded study notes."
}

func (t *retrievalTool) Invoke(ctx context.Context, input string) (string, error) {
	start := time.Now()
	chunks, err := t.index.Search(ctx, input, t.k)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Content)
	}
	return truncate(strings.Join(texts, "\n\n"), t.maxChars), nil
}

type quizTool struct {
	index vectorDB.IndexStore
	synth *quiz.Synthesizer
	k     int
}

// NewQuizTool writes one short-answer question about a topic from the notes.
func NewQuizTool(index vectorDB.IndexStore, synth *quiz.Synthesizer) Tool {
	return &quizTool{index: index, synth: synth, k: config.SingleQuizSearchK}
}

func (t *quizTool) Name() string { return QuizToolName }

func (t *quizTool) Description() string {
	return "Use this to generate test questions from the notes based on a given topic."
}

func (t *quizTool) Invoke(ctx context.Context, input string) (string, error) {
	chunks, err := t.index.Search(ctx, input, t.k)
	if err != nil {
		return "", err
	}
	return t.synth.GenerateRaw(ctx, chunks, quizModel.SingleShortAnswer)
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
