package quiz

import (
	"regexp"
	"strings"

	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
)

var (
	questionMarker = regexp.MustCompile(`Q\d+:`)
	// the question runs up to the first line that starts an answer marker
	questionAnswer = regexp.MustCompile(`(?s)^(Q\d+:.*?)\n(A\d+:.*?)\n?\z`)
)

// ParseQuiz splits raw model output into questions. A block is everything from
// one Q<n>: marker to the next one. Blocks without a Q/A pair are dropped and
// counted; survivors are numbered from 0 in order.
func ParseQuiz(raw string) ([]quizModel.QuizQuestion, int) {
	blocks := splitBlocks(raw)

	questions := make([]quizModel.QuizQuestion, 0, len(blocks))
	dropped := 0
	for _, block := range blocks {
		m := questionAnswer.FindStringSubmatch(strings.TrimSpace(block))
		if m == nil {
			dropped++
			continue
		}
		q, a := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if q == "" || a == "" {
			dropped++
			continue
		}
		questions = append(questions, quizModel.QuizQuestion{
			Id:           len(questions),
			QuestionText: q,
			AnswerText:   a,
		})
	}
	return questions, dropped
}

func splitBlocks(raw string) []string {
	starts := questionMarker.FindAllStringIndex(raw, -1)
	blocks := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(raw)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		blocks = append(blocks, raw[loc[0]:end])
	}
	return blocks
}
