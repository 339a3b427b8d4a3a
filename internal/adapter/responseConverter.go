package adapter

import (
	"github.com/akolanti/FinalGuardian/internal/api"
	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
)

const (
	UploadedMessage       = "Uploaded successfully."
	AlreadyIndexedMessage = "All content already exists in database."
)

func ToUploadResponse(report quizModel.UploadReport) api.UploadResponse {
	message := UploadedMessage
	if report.Accepted == 0 {
		message = AlreadyIndexedMessage
	}
	return api.UploadResponse{
		Message:    message,
		DocumentId: report.DocumentId,
		Accepted:   report.Accepted,
		Skipped:    report.Skipped,
	}
}

func ToQuizResponse(result quizModel.QuizResult) api.QuizResponse {
	questions := make([]api.QuizQuestion, 0, len(result.Questions))
	for _, q := range result.Questions {
		questions = append(questions, api.QuizQuestion{
			Id:       q.Id,
			Question: q.QuestionText,
			Answer:   q.AnswerText,
		})
	}
	return api.QuizResponse{Questions: questions, DroppedBlocks: result.DroppedBlocks}
}

func ToSubmissions(req api.EvaluateRequest) []quizModel.AnswerSubmission {
	subs := make([]quizModel.AnswerSubmission, 0, len(req.Answers))
	for _, a := range req.Answers {
		subs = append(subs, quizModel.AnswerSubmission{
			QuestionText:    a.Question,
			ReferenceAnswer: a.CorrectAnswer,
			CandidateAnswer: a.UserAnswer,
		})
	}
	return subs
}

// ToEvaluationResponse keeps the order of results, which is the order of the request.
func ToEvaluationResponse(results []quizModel.EvaluationResult) api.EvaluationResponse {
	items := make([]api.EvaluationItem, 0, len(results))
	for _, r := range results {
		items = append(items, api.EvaluationItem{
			Question: r.QuestionText,
			Result: api.GradeDetail{
				Content:     r.Content,
				Verdict:     string(r.Verdict),
				Explanation: r.Explanation,
				Flagged:     r.Flagged,
			},
		})
	}
	return api.EvaluationResponse{Results: items}
}

func ToErrorResponse(err error) api.ErrorResponse {
	return api.ErrorResponse{
		Error: appErrors.PublicMessage(err),
		Code:  string(appErrors.KindOf(err)),
	}
}
