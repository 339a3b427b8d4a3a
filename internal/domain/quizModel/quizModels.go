package quizModel

type Mode int

const (
	Standard Mode = iota
	SingleShortAnswer
)

func (m Mode) String() string {
	if m == SingleShortAnswer {
		return "single_short_answer"
	}
	return "standard"
}

type Verdict string

const (
	Correct   Verdict = "Correct"
	Incorrect Verdict = "Incorrect"
)

// QuizQuestion ids are dense (0..n-1) within one generation response.
type QuizQuestion struct {
	Id           int    `json:"id"`
	QuestionText string `json:"question"`
	AnswerText   string `json:"answer"`
}

type QuizResult struct {
	Questions     []QuizQuestion `json:"questions"`
	DroppedBlocks int            `json:"dropped_blocks"`
	Raw           string         `json:"-"`
}

type AnswerSubmission struct {
	QuestionText    string `json:"question"`
	ReferenceAnswer string `json:"correct_answer"`
	CandidateAnswer string `json:"user_answer"`
}

type EvaluationResult struct {
	QuestionText string  `json:"question"`
	Verdict      Verdict `json:"verdict"`
	Explanation  string  `json:"explanation"`
	// Content is the raw grader text, forwarded as-is.
	Content string `json:"content"`
	// Flagged marks results whose grade could not be parsed or obtained.
	Flagged bool `json:"flagged"`
}

type UploadReport struct {
	DocumentId string `json:"document_id"`
	Accepted   int    `json:"accepted"`
	Skipped    int    `json:"skipped"`
}
