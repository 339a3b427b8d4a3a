package evaluator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

const gradingTemplate = `
You are a strict but fair exam grader.
Please evaluate the student's answer to the following question:

Question:
%s

Correct Answer:
%s

Student's Answer:
%s

Instructions:
- Indicate whether the answer is correct or not (Correct / Incorrect).
- Provide a short explanation why.

Respond in the following format:

Result: Correct / Incorrect
Explanation: ...
`

var (
	// tolerates markdown bold around the label and the verdict. The verdict must
	// be the only word on the line, so an echoed "Correct / Incorrect" fails.
	resultLine      = regexp.MustCompile(`(?im)^[\s*_]*result[\s*_]*:[ \t*_]*(correct|incorrect)[ \t*_.]*$`)
	explanationLine = regexp.MustCompile(`(?is)explanation[\s*_]*:[\s*_]*(.*)`)
)

const ungradedExplanation = "The grader reply could not be understood; this answer was not graded."

type Evaluator struct {
	provider llm.Provider
	retries  int
	logger   *logger_i.Logger
}

func NewEvaluator(provider llm.Provider) *Evaluator {
	return &Evaluator{
		provider: provider,
		retries:  config.EvalRetryOnUnparsed,
		logger:   logger_i.NewLogger("Answer Evaluator"),
	}
}

// Evaluate grades one answer. A reply without a readable verdict is retried,
// then reported as Incorrect with Flagged set. Provider errors are returned
// classified and never retried here.
func (e *Evaluator) Evaluate(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
	log := e.logger.WithTrace(ctx)
	prompt := fmt.Sprintf(gradingTemplate, sub.QuestionText, sub.ReferenceAnswer, sub.CandidateAnswer)

	var raw string
	for attempt := 0; attempt <= e.retries; attempt++ {
		start := time.Now()
		text, err := llm.CompleteText(ctx, e.provider, prompt)
		metrics.CaptureExecutionMetrics("llm_grading", time.Since(start))
		if err != nil {
			log.Error("Grading call failed", "error", err)
			return quizModel.EvaluationResult{}, llm.ClassifyError(err)
		}
		raw = text

		if verdict, ok := ParseVerdict(raw); ok {
			return quizModel.EvaluationResult{
				QuestionText: sub.QuestionText,
				Verdict:      verdict,
				Explanation:  parseExplanation(raw),
				Content:      raw,
			}, nil
		}
		log.Warn("Unparseable grade", "attempt", attempt+1)
	}

	metrics.IncrementUngraded()
	explanation := parseExplanation(raw)
	if explanation == "" {
		explanation = ungradedExplanation
	}
	return quizModel.EvaluationResult{
		QuestionText: sub.QuestionText,
		Verdict:      quizModel.Incorrect,
		Explanation:  explanation,
		Content:      raw,
		Flagged:      true,
	}, nil
}

func ParseVerdict(raw string) (quizModel.Verdict, bool) {
	m := resultLine.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	if strings.EqualFold(m[1], "correct") {
		return quizModel.Correct, true
	}
	return quizModel.Incorrect, true
}

func parseExplanation(raw string) string {
	m := explanationLine.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
