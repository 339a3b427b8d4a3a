package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/FinalGuardian/internal/domain/commonModels"
	"github.com/akolanti/FinalGuardian/internal/domain/quizModel"
	"github.com/akolanti/FinalGuardian/internal/rag/llm"
)

// MockIndex implements vectorDB.IndexStore
type MockIndex struct {
	mu       sync.Mutex
	Inserted []commonModels.Chunk
	OnInsert func(ctx context.Context, chunks []commonModels.Chunk) error
	OnSearch func(ctx context.Context, query string, k int) ([]commonModels.Chunk, error)
}

func (m *MockIndex) Insert(ctx context.Context, chunks []commonModels.Chunk) error {
	if m.OnInsert != nil {
		if err := m.OnInsert(ctx, chunks); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserted = append(m.Inserted, chunks...)
	return nil
}

func (m *MockIndex) Search(ctx context.Context, query string, k int) ([]commonModels.Chunk, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, query, k)
	}
	return nil, nil
}

// MockLedger implements dedup.Ledger
type MockLedger struct {
	mu         sync.Mutex
	Known      map[commonModels.Fingerprint]bool
	OnContains func(ctx context.Context, fp commonModels.Fingerprint) (bool, error)
	OnRecord   func(ctx context.Context, fps []commonModels.Fingerprint) error
}

func NewMockLedger() *MockLedger {
	return &MockLedger{Known: map[commonModels.Fingerprint]bool{}}
}

func (m *MockLedger) Contains(ctx context.Context, fp commonModels.Fingerprint) (bool, error) {
	if m.OnContains != nil {
		return m.OnContains(ctx, fp)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Known[fp], nil
}

func (m *MockLedger) Record(ctx context.Context, fps []commonModels.Fingerprint) error {
	if m.OnRecord != nil {
		if err := m.OnRecord(ctx, fps); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, fp := range fps {
		m.Known[fp] = true
	}
	return nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	mu         sync.Mutex
	Prompts    []string
	OnComplete func(ctx context.Context, prompt string) (llm.GenerationResult, error)
}

func (m *MockLLM) Complete(ctx context.Context, prompt string) (llm.GenerationResult, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.OnComplete != nil {
		return m.OnComplete(ctx, prompt)
	}
	return llm.Text(""), nil
}

// MockGrader implements rag.Grader
type MockGrader struct {
	OnEvaluate func(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error)
}

func (m *MockGrader) Evaluate(ctx context.Context, sub quizModel.AnswerSubmission) (quizModel.EvaluationResult, error) {
	return m.OnEvaluate(ctx, sub)
}

// MockTutor implements rag.Chatter
type MockTutor struct {
	OnChat func(ctx context.Context, message string) (string, error)
}

func (m *MockTutor) Chat(ctx context.Context, message string) (string, error) {
	return m.OnChat(ctx, message)
}
