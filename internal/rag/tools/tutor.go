package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/akolanti/FinalGuardian/internal/domain/appErrors"
	"github.com/akolanti/FinalGuardian/internal/metrics"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
	"github.com/akolanti/FinalGuardian/internal/rag/vectorDB"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
)

const routingTemplate = `You are a helpful study tutor. You can use these tools:
%s
If a tool would help, reply with exactly two lines:
TOOL: <tool name>
INPUT: <what to pass to the tool>

Otherwise reply with:
ANSWER: <your reply to the student>

Student: %s
`

const answerTemplate = `You are a helpful study tutor.
The student asked: %s

The tool %s returned:
%s

Using that result, write your reply to the student.
`

var (
	toolLine   = regexp.MustCompile(`(?im)^\s*TOOL:\s*(\S+)`)
	inputLine  = regexp.MustCompile(`(?ims)^\s*INPUT:\s*(.*)`)
	answerLine = regexp.MustCompile(`(?ims)^\s*ANSWER:\s*(.*)`)
)

type decision struct {
	tool   string
	input  string
	answer string
}

func parseDecision(raw string, message string) decision {
	if m := toolLine.FindStringSubmatch(raw); m != nil {
		d := decision{tool: strings.Trim(m[1], "`*\"'"), input: message}
		if in := inputLine.FindStringSubmatch(raw); in != nil && strings.TrimSpace(in[1]) != "" {
			d.input = strings.TrimSpace(in[1])
		}
		return d
	}
	if m := answerLine.FindStringSubmatch(raw); m != nil {
		return decision{answer: strings.TrimSpace(m[1])}
	}
	return decision{answer: strings.TrimSpace(raw)}
}

// Tutor answers chat messages, calling at most one tool per message.
type Tutor struct {
	provider llm.Provider
	tools    []Tool
	byName   map[string]Tool
	cache    vectorDB.SemanticCache
	logger   *logger_i.Logger
}

// NewTutor takes an optional cache; nil disables it.
func NewTutor(provider llm.Provider, cache vectorDB.SemanticCache, tools ...Tool) *Tutor {
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	return &Tutor{
		provider: provider,
		tools:    tools,
		byName:   byName,
		cache:    cache,
		logger:   logger_i.NewLogger("Chat Tutor"),
	}
}

func (t *Tutor) Tools() []Tool {
	return t.tools
}

func (t *Tutor) Chat(ctx context.Context, message string) (string, error) {
	log := t.logger.WithTrace(ctx)

	if t.cache != nil {
		start := time.Now()
		cached, found, err := t.cache.GetCachedAnswer(ctx, message)
		metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start))
		if err != nil {
			log.Warn("Cache lookup failed", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	raw, err := t.complete(ctx, fmt.Sprintf(routingTemplate, t.describeTools(), message))
	if err != nil {
		return "", err
	}

	d := parseDecision(raw, message)
	answer := d.answer
	if d.tool != "" {
		tool, ok := t.byName[d.tool]
		if !ok {
			log.Warn("Model asked for an unknown tool", "tool", d.tool)
			answer = strings.TrimSpace(raw)
		} else {
			answer, err = t.useTool(ctx, tool, d.input, message)
			if err != nil {
				return "", err
			}
		}
	}

	if t.cache != nil && answer != "" {
		go func(ctx context.Context) {
			if err := t.cache.SaveToCache(ctx, message, answer); err != nil {
				t.logger.Error("Failed to save to cache", "error", err)
			}
		}(context.WithoutCancel(ctx))
	}
	return answer, nil
}

func (t *Tutor) useTool(ctx context.Context, tool Tool, input string, message string) (string, error) {
	log := t.logger.WithTrace(ctx)
	log.Debug("Invoking tool", "tool", tool.Name())

	observation, err := tool.Invoke(ctx, input)
	if err != nil {
		if llm.IsRateLimited(err) {
			return "", llm.ClassifyError(err)
		}
		// the model can still say something useful about a failed lookup
		log.Warn("Tool failed", "tool", tool.Name(), "error", err)
		observation = "The tool failed: " + appErrors.PublicMessage(err)
	}
	return t.complete(ctx, fmt.Sprintf(answerTemplate, message, tool.Name(), observation))
}

func (t *Tutor) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_chat", time.Since(start)) }()

	out, err := llm.CompleteText(ctx, t.provider, prompt)
	if err != nil {
		return "", llm.ClassifyError(err)
	}
	return strings.TrimSpace(out), nil
}

func (t *Tutor) describeTools() string {
	var b strings.Builder
	for _, tool := range t.tools {
		fmt.Fprintf(&b, "- %s: %s\n", tool.Name(), tool.Description())
	}
	return b.String()
}
