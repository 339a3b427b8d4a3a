package api

// responses---------------------

type ErrorResponse struct {
	Error string `json:"error" example:"No notes found related to this keyword. Please upload your notes first."`
	Code  string `json:"code" example:"NO_NOTES_FOR_TOPIC"`
}

type MessageResponse struct {
	Message string `json:"message" example:"pong"`
}

type UploadResponse struct {
	Message    string `json:"message" example:"Uploaded successfully."`
	DocumentId string `json:"document_id,omitempty"`
	Accepted   int    `json:"accepted" example:"3"`
	Skipped    int    `json:"skipped" example:"0"`
}

type QuizQuestion struct {
	Id       int    `json:"id" example:"0"`
	Question string `json:"question" example:"Q1: Where does photosynthesis happen?\na) Mitochondria\nb) Chloroplasts"`
	Answer   string `json:"answer" example:"A1: b) Chloroplasts"`
}

type QuizResponse struct {
	Questions     []QuizQuestion `json:"questions"`
	DroppedBlocks int            `json:"dropped_blocks"`
}

type GradeDetail struct {
	Content     string `json:"content" example:"Result: Correct\nExplanation: The answer names the chloroplast."`
	Verdict     string `json:"verdict" example:"Correct"`
	Explanation string `json:"explanation,omitempty"`
	Flagged     bool   `json:"flagged"`
}

type EvaluationItem struct {
	Question string      `json:"question"`
	Result   GradeDetail `json:"result"`
}

type EvaluationResponse struct {
	Results []EvaluationItem `json:"results"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// requests---------------------

type AnswerRequest struct {
	Question      string `json:"question" validate:"required"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

type EvaluateRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}
