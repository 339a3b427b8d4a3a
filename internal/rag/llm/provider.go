package llm

import "context"

// Provider sends one prompt to a generative model.
type Provider interface {
	Complete(ctx context.Context, prompt string) (GenerationResult, error)
}

// GenerationResult is either Text or StructuredMessage. Callers only ever use
// Normalize.
type GenerationResult interface {
	Normalize() string
	generationResult()
}

type Text string

func (t Text) Normalize() string { return string(t) }
func (Text) generationResult()   {}

// StructuredMessage is what chat-style APIs return.
type StructuredMessage struct {
	Role    string
	Content string
}

func (m StructuredMessage) Normalize() string { return m.Content }
func (StructuredMessage) generationResult()   {}

// CompleteText is Complete followed by Normalize.
func CompleteText(ctx context.Context, p Provider, prompt string) (string, error) {
	res, err := p.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", nil
	}
	return res.Normalize(), nil
}
