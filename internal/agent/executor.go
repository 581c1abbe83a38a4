package agent

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_agent.go -package=mocks repoqa/internal/agent ChatModel,Tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"repoqa/internal/contextutil"
	"repoqa/internal/llm"
)

const (
	// DefaultMaxIterations bounds the number of model calls per run.
	DefaultMaxIterations = 15
	doomLoopThreshold    = 3 // Same single tool call this many times in a row
	maxParallelTools     = 4
)

// ChatModel is the tool-calling model the executor drives.
type ChatModel interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Tools executes the tools offered to the model.
type Tools interface {
	// Definitions returns tool definitions for the LLM.
	Definitions() []llm.Tool
	// Execute runs a tool by name with JSON-encoded arguments.
	Execute(ctx context.Context, name, arguments string) (string, error)
}

// Executor runs a tool-calling conversation until the model answers.
type Executor struct {
	model         ChatModel
	tools         Tools
	memory        *BufferMemory
	callbacks     Callbacks
	maxIterations int
}

// NewExecutor creates an executor. A nil memory keeps no history between runs
// and nil callbacks log through LogCallbacks.
func NewExecutor(model ChatModel, tools Tools, memory *BufferMemory, callbacks Callbacks) *Executor {
	if memory == nil {
		memory = NewBufferMemory()
	}
	if callbacks == nil {
		callbacks = LogCallbacks{}
	}
	return &Executor{
		model:         model,
		tools:         tools,
		memory:        memory,
		callbacks:     callbacks,
		maxIterations: DefaultMaxIterations,
	}
}

// SetMaxIterations overrides DefaultMaxIterations.
func (e *Executor) SetMaxIterations(n int) {
	if n > 0 {
		e.maxIterations = n
	}
}

// Memory returns the executor's chat history.
func (e *Executor) Memory() *BufferMemory {
	return e.memory
}

// toolCallRecord tracks a tool invocation for doom loop detection.
type toolCallRecord struct {
	name string
	args string
}

// Run answers input. The exchange is saved to memory once an answer exists.
func (e *Executor) Run(ctx context.Context, input string) (string, error) {
	start := time.Now()
	ctx = contextutil.WithLogFields(ctx, "component", "agent")
	logger := contextutil.LoggerFromContext(ctx)
	e.callbacks.ChainStart(ctx, input)

	messages := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
	messages = append(messages, e.memory.Messages()...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	var recentCalls []toolCallRecord
	iterations := 0

	finish := func(output, reason string) (string, error) {
		e.memory.Save(input, output)
		e.callbacks.AgentFinish(ctx, output)
		e.callbacks.ChainEnd(ctx, output)
		logger.InfoContext(ctx, "agent completed",
			"iterations", iterations,
			"termination_reason", reason,
			"duration_ms", time.Since(start).Milliseconds())
		return output, nil
	}

	for {
		if iterations >= e.maxIterations {
			logger.WarnContext(ctx, "agent hit iteration limit", "iterations", iterations)
			return finish(StoppedMessage, "iteration_limit")
		}
		iterations++

		resp, err := e.model.Chat(ctx, llm.ChatRequest{
			Messages:    messages,
			Tools:       e.tools.Definitions(),
			Temperature: llm.Temp(0),
		})
		if err != nil {
			return "", fmt.Errorf("agent iteration %d: %w", iterations, err)
		}

		logger.DebugContext(ctx, "agent iteration completed",
			"iteration", iterations,
			"prompt_tokens", resp.PromptTokens,
			"completion_tokens", resp.CompletionTokens,
			"tool_calls", len(resp.ToolCalls))

		if len(resp.ToolCalls) == 0 {
			return finish(resp.Content, "natural")
		}

		if len(resp.ToolCalls) == 1 {
			tc := resp.ToolCalls[0]
			recentCalls = append(recentCalls, toolCallRecord{name: tc.Name, args: normalizeArgs(tc.Arguments)})
			if len(recentCalls) > doomLoopThreshold {
				recentCalls = recentCalls[1:]
			}
			if len(recentCalls) == doomLoopThreshold && allIdentical(recentCalls) {
				logger.WarnContext(ctx, "agent doom loop detected, forcing completion",
					"iterations", iterations,
					"repeated_tool", tc.Name,
					"repeated_args", tc.Arguments)
				answer, err := e.forceSynthesis(ctx, messages)
				if err != nil {
					return "", err
				}
				return finish(answer, "doom_loop")
			}
		} else {
			recentCalls = nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for i, result := range e.executeTools(ctx, resp.ToolCalls) {
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    result,
				ToolCallID: resp.ToolCalls[i].ID,
			})
		}
	}
}

// forceSynthesis asks for a final answer without offering tools.
func (e *Executor) forceSynthesis(ctx context.Context, messages []llm.Message) (string, error) {
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: searchRepeatedPrompt})
	resp, err := e.model.Chat(ctx, llm.ChatRequest{
		Messages:    messages,
		Temperature: llm.Temp(0),
	})
	if err != nil {
		return "", fmt.Errorf("agent forced synthesis: %w", err)
	}
	return resp.Content, nil
}

// executeTools runs the calls concurrently and returns their results in call order.
// A failing tool yields an error message as its result.
func (e *Executor) executeTools(ctx context.Context, calls []llm.ToolCall) []string {
	results := make([]string, len(calls))

	var g errgroup.Group
	g.SetLimit(maxParallelTools)
	for i, call := range calls {
		e.callbacks.AgentAction(ctx, call)
		g.Go(func() error {
			result, err := e.tools.Execute(ctx, call.Name, call.Arguments)
			if err != nil {
				contextutil.LoggerFromContext(ctx).WarnContext(ctx, "tool failed", "tool", call.Name, "error", err)
				result = fmt.Sprintf("Error: %s", err)
			}
			results[i] = result
			e.callbacks.ToolEnd(ctx, call.Name, result)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// normalizeArgs normalizes JSON arguments for comparison.
func normalizeArgs(args string) string {
	var v any
	if err := json.Unmarshal([]byte(args), &v); err != nil {
		return args
	}
	normalized, err := json.Marshal(v)
	if err != nil {
		return args
	}
	return string(normalized)
}

// allIdentical checks if all tool calls in the slice are identical.
func allIdentical(calls []toolCallRecord) bool {
	for _, c := range calls[1:] {
		if c != calls[0] {
			return false
		}
	}
	return true
}
