package retrieval

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// keywordEmbedder maps each text to keyword counts so similarity is predictable.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
}

var keywords = []string{"alpha", "beta", "gamma"}

func (e *keywordEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
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

// funcCompleter answers prompts with a function and records them.
type funcCompleter struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (c *funcCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	return c.reply(prompt)
}

func (c *funcCompleter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

var errModel = errors.New("model unavailable")
