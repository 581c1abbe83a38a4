package agent

import (
	"sync"

	"repoqa/internal/llm"
)

// BufferMemory keeps the whole conversation as chat history.
type BufferMemory struct {
	mu       sync.Mutex
	messages []llm.Message
}

// NewBufferMemory creates an empty memory.
func NewBufferMemory() *BufferMemory {
	return &BufferMemory{}
}

// Messages returns a copy of the chat history, oldest first.
func (m *BufferMemory) Messages() []llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Message(nil), m.messages...)
}

// Save appends a completed exchange.
func (m *BufferMemory) Save(input, output string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages,
		llm.Message{Role: llm.RoleUser, Content: input},
		llm.Message{Role: llm.RoleAssistant, Content: output},
	)
}

// Clear forgets the history.
func (m *BufferMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
