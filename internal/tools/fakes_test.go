package tools

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// keywordEmbedder maps each text to keyword counts and records what it embedded.
type keywordEmbedder struct {
	mu    sync.Mutex
	texts []string
	err   error
}

var keywords = []string{"router", "store", "header"}

func (e *keywordEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.texts = append(e.texts, texts...)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(keywords)+1)
		for j, kw := range keywords {
			vec[j] = float32(strings.Count(strings.ToLower(text), kw))
		}
		vec[len(keywords)] = 0.01
		out[i] = vec
	}
	return out, nil
}

func (e *keywordEmbedder) embedded() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.texts...)
}

// scriptedModel answers each retrieval prompt kind with its own function.
type scriptedModel struct {
	mu        sync.Mutex
	prompts   []string
	selfQuery func(prompt string) (string, error)
	extract   func(prompt string) (string, error)
	refine    func(step int) (string, error)
	refines   int
}

func (m *scriptedModel) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	switch {
	case strings.HasPrefix(prompt, "Your goal is to structure"):
		if m.selfQuery == nil {
			return `{"query": "", "filter": null}`, nil
		}
		return m.selfQuery(prompt)
	case strings.HasPrefix(prompt, "Given the following question and context"):
		if m.extract == nil {
			return "extracted", nil
		}
		return m.extract(prompt)
	default:
		m.mu.Lock()
		step := m.refines
		m.refines++
		m.mu.Unlock()
		if m.refine == nil {
			return "the answer", nil
		}
		return m.refine(step)
	}
}

func (m *scriptedModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *scriptedModel) refineCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refines
}

var errModel = errors.New("model unavailable")
