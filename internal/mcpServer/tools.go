package mcpServer

import (
	"context"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/rag/tools"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ToolInput struct {
	Input string `json:"input" jsonschema:"the question or topic to pass to the tool"`
}

type ToolOutput struct {
	Text string `json:"text"`
}

type QuizInput struct {
	Topic string `json:"topic" jsonschema:"keyword used to look up the uploaded notes"`
}

type EvaluateInput struct {
	Answers []quizModel.AnswerSubmission `json:"answers" jsonschema:"questions with the reference and the student answer"`
}

type EvaluateOutput struct {
	Results []quizModel.EvaluationResult `json:"results"`
}

func (s *Server) registerTools() {
	for _, t := range s.tools {
		mcp.AddTool(s.server, &mcp.Tool{Name: t.Name(), Description: t.Description()}, s.toolHandler(t))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_quiz",
		Description: "Generate a quiz from the uploaded notes that match a topic",
	}, s.handleGenerateQuiz)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_answers",
		Description: "Grade student answers against the reference answers",
	}, s.handleEvaluate)
}

// every call gets its own trace id so log lines can be matched up
func traced(ctx context.Context) context.Context {
	return context.WithValue(ctx, config.TRACE_ID_KEY, uuid.NewString())
}

func (s *Server) toolHandler(t tools.Tool) func(context.Context, *mcp.CallToolRequest, ToolInput) (*mcp.CallToolResult, ToolOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ToolInput) (*mcp.CallToolResult, ToolOutput, error) {
		ctx = traced(ctx)
		out, err := t.Invoke(ctx, in.Input)
		if err != nil {
			s.logger.WithTrace(ctx).Error("Tool call failed", "tool", t.Name(), "error", err)
			return nil, ToolOutput{}, err
		}
		return nil, ToolOutput{Text: out}, nil
	}
}

func (s *Server) handleGenerateQuiz(ctx context.Context, _ *mcp.CallToolRequest, in QuizInput) (*mcp.CallToolResult, quizModel.QuizResult, error) {
	result, err := s.svc.HandleQuizRequest(traced(ctx), in.Topic)
	if err != nil {
		return nil, quizModel.QuizResult{}, err
	}
	return nil, result, nil
}

func (s *Server) handleEvaluate(ctx context.Context, _ *mcp.CallToolRequest, in EvaluateInput) (*mcp.CallToolResult, EvaluateOutput, error) {
	results, err := s.svc.HandleEvaluationBatch(traced(ctx), in.Answers)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}
	return nil, EvaluateOutput{Results: results}, nil
}
