package agent

import (
	"testing"

	"repoqa/internal/llm"
)

func TestBufferMemory(t *testing.T) {
	m := NewBufferMemory()
	m.Save("hi", "hello")

	got := m.Messages()
	if len(got) != 2 || got[0].Role != llm.RoleUser || got[1].Role != llm.RoleAssistant {
		t.Fatalf("Messages() = %+v", got)
	}

	got[0].Content = "changed"
	if m.Messages()[0].Content != "hi" {
		t.Error("Messages() should return a copy")
	}

	m.Clear()
	if len(m.Messages()) != 0 {
		t.Error("Clear() should forget the history")
	}
}
