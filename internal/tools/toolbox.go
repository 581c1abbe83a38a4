package tools

import (
	"context"
	"fmt"

	"repoqa/internal/llm"
)

// Toolbox exposes a fixed set of query tools to an agent.
type Toolbox struct {
	tools       map[string]*QueryTool
	definitions []llm.Tool
}

// NewToolbox creates a toolbox. Definitions keep the given order.
func NewToolbox(tools ...*QueryTool) *Toolbox {
	b := &Toolbox{tools: make(map[string]*QueryTool, len(tools))}
	for _, t := range tools {
		b.tools[t.Name()] = t
		b.definitions = append(b.definitions, t.Definition())
	}
	return b
}

// Definitions returns tool definitions for the LLM.
func (b *Toolbox) Definitions() []llm.Tool {
	return b.definitions
}

// Execute runs a tool by name with JSON-encoded arguments.
func (b *Toolbox) Execute(ctx context.Context, name, arguments string) (string, error) {
	t, ok := b.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	params, err := llm.ParseToolArguments[QueryParams](arguments)
	if err != nil {
		return "", fmt.Errorf("parse %s params: %w", name, err)
	}
	if params.Question == "" {
		return "", fmt.Errorf("%s: question is required", name)
	}
	return t.Run(ctx, params)
}
