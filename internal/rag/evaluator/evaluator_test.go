package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (p *scriptedProvider) Complete(ctx context.Context, prompt string) (llm.GenerationResult, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return nil, p.err
	}
	reply := p.replies[len(p.replies)-1]
	if p.calls <= len(p.replies) {
		reply = p.replies[p.calls-1]
	}
	return llm.Text(reply), nil
}

var submission = quizModel.AnswerSubmission{
	QuestionText:    "Q1: What is the powerhouse of the cell?",
	ReferenceAnswer: "A1: Mitochondria",
	CandidateAnswer: "mitochondria",
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		raw  string
		want quizModel.Verdict
		ok   bool
	}{
		{"Result: Correct\nExplanation: matches.", quizModel.Correct, true},
		{"Result: Incorrect\nExplanation: wrong organelle.", quizModel.Incorrect, true},
		{"result: CORRECT", quizModel.Correct, true},
		{"**Result:** **Incorrect**\n**Explanation:** no.", quizModel.Incorrect, true},
		{"Some preamble\nResult: Correct", quizModel.Correct, true},
		{"Result: Partially correct", "", false},
		{"Result: Correct / Incorrect\nExplanation: the answer matches.", "", false},
		{"Result: Correct/Incorrect", "", false},
		{"Result: Incorrect or Correct", "", false},
		{"Result: Correct.\nExplanation: same organelle.", quizModel.Correct, true},
		{"The answer looks fine to me.", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseVerdict(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Correct(t *testing.T) {
	p := &scriptedProvider{replies: []string{"Result: Correct\nExplanation: Same organelle."}}
	res, err := NewEvaluator(p).Evaluate(context.Background(), submission)
	require.NoError(t, err)

	assert.Equal(t, quizModel.Correct, res.Verdict)
	assert.Equal(t, "Same organelle.", res.Explanation)
	assert.Equal(t, "Result: Correct\nExplanation: Same organelle.", res.Content)
	assert.Equal(t, submission.QuestionText, res.QuestionText)
	assert.False(t, res.Flagged)

	require.Len(t, p.prompts, 1)
	assert.Contains(t, p.prompts[0], submission.ReferenceAnswer)
	assert.Contains(t, p.prompts[0], submission.CandidateAnswer)
}

func TestEvaluate_RetryThenParse(t *testing.T) {
	p := &scriptedProvider{replies: []string{"I think so.", "Result: Incorrect\nExplanation: nope"}}
	res, err := NewEvaluator(p).Evaluate(context.Background(), submission)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, quizModel.Incorrect, res.Verdict)
	assert.False(t, res.Flagged)
}

func TestEvaluate_EchoedTemplateIsFlagged(t *testing.T) {
	p := &scriptedProvider{replies: []string{"Result: Correct / Incorrect\nExplanation: ..."}}
	res, err := NewEvaluator(p).Evaluate(context.Background(), submission)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, quizModel.Incorrect, res.Verdict)
	assert.True(t, res.Flagged)
}

func TestEvaluate_FlaggedAfterRetry(t *testing.T) {
	p := &scriptedProvider{replies: []string{"Looks good!"}}
	res, err := NewEvaluator(p).Evaluate(context.Background(), submission)
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
	assert.True(t, res.Flagged)
	assert.Equal(t, quizModel.Incorrect, res.Verdict)
	assert.Equal(t, "Looks good!", res.Content)
	assert.NotEmpty(t, res.Explanation)
}

func TestEvaluate_RateLimitNotRetried(t *testing.T) {
	p := &scriptedProvider{err: appErrors.ErrRateLimited}
	_, err := NewEvaluator(p).Evaluate(context.Background(), submission)
	assert.ErrorIs(t, err, appErrors.ErrRateLimited)
	assert.Equal(t, 1, p.calls)
}

func TestEvaluate_ProviderFailure(t *testing.T) {
	p := &scriptedProvider{err: errors.New("connection reset")}
	_, err := NewEvaluator(p).Evaluate(context.Background(), submission)
	assert.ErrorIs(t, err, appErrors.ErrGenerationFailed)
}
