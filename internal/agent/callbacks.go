package agent

import (
	"context"

	"repoqa/internal/contextutil"
	"repoqa/internal/llm"
)

// Callbacks observes an executor run.
type Callbacks interface {
	ChainStart(ctx context.Context, input string)
	ChainEnd(ctx context.Context, output string)
	AgentAction(ctx context.Context, call llm.ToolCall)
	ToolEnd(ctx context.Context, name, output string)
	AgentFinish(ctx context.Context, output string)
}

// LogCallbacks writes every event to the context logger.
type LogCallbacks struct{}

func (LogCallbacks) ChainStart(ctx context.Context, input string) {
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "Entering new agent_executor chain...", "input", input)
}

func (LogCallbacks) ChainEnd(ctx context.Context, _ string) {
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "Finished chain.")
}

func (LogCallbacks) AgentAction(ctx context.Context, call llm.ToolCall) {
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "agent action", "tool", call.Name, "call_id", call.ID, "arguments", call.Arguments)
}

func (LogCallbacks) ToolEnd(ctx context.Context, name, output string) {
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "tool finished", "tool", name, "output", output)
}

func (LogCallbacks) AgentFinish(ctx context.Context, output string) {
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "agent finished", "output", output)
}
