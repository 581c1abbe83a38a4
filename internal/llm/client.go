package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"repoqa/internal/contextutil"
)

// Config holds client configuration for an OpenAI compatible API.
type Config struct {
	APIKey  string // Required
	BaseURL string // Optional: custom API endpoint
	Model   string
}

// Client is a chat completions client bound to one model.
type Client struct {
	openai openai.Client
	model  string
}

// NewClient creates a new LLM client. Extra request options are appended
// after the ones derived from cfg.
func NewClient(cfg Config, opts ...option.RequestOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &Client{
		openai: openai.NewClient(requestOptions(cfg, opts)...),
		model:  cfg.Model,
	}, nil
}

func requestOptions(cfg Config, extra []option.RequestOption) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return append(opts, extra...)
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

// Chat sends a chat completion request, offering tools when any are given.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: convertMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	choice := resp.Choices[0]
	logger.DebugContext(ctx, "llm chat completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason)

	result := &ChatResponse{
		Content:          choice.Message.Content,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}
	for _, tc := range choice.Message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return result, nil
}

// Complete sends a single prompt at temperature 0 and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Chat(ctx, ChatRequest{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Temperature: Temp(0),
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func convertMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))

		case RoleUser:
			result = append(result, openai.UserMessage(msg.Content))

		case RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				result = append(result, openai.AssistantMessage(msg.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Content:   openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(msg.Content)},
					ToolCalls: toolCalls,
				},
			})

		case RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		}
	}

	return result
}

func convertTools(tools []Tool) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))

	for i, t := range tools {
		var params shared.FunctionParameters
		if t.Parameters != nil {
			data, _ := json.Marshal(t.Parameters)
			_ = json.Unmarshal(data, &params)
		}

		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  params,
			},
		}
	}

	return result
}
