package llm

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For assistant messages that request tool calls
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool result messages
}

// Tool defines a function the model can call.
type Tool struct {
	Name        string
	Description string
	Parameters  any // JSON Schema for parameters
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded arguments
}

// ChatRequest holds parameters for chat completion requests.
type ChatRequest struct {
	Messages []Message
	Tools    []Tool

	// MaxTokens limits the completion length. If 0, the model default is used.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// nil keeps the model default, an explicit 0 is deterministic.
	Temperature *float64
}

// ChatResponse contains the model's reply.
type ChatResponse struct {
	Content          string
	ToolCalls        []ToolCall
	FinishReason     string // "stop", "tool_calls", "length"
	PromptTokens     int
	CompletionTokens int
}

// Temp returns a pointer to t for ChatRequest.Temperature.
func Temp(t float64) *float64 {
	return &t
}
