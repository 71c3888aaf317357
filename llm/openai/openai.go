// Package openai implements llm.LanguageModel against any
// OpenAI-compatible chat-completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/breakingread/analyst/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config configures the chat-completions client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Model is an OpenAI-compatible chat-completions language model.
type Model struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// New creates a model client.
func New(cfg Config) *Model {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &Model{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (m *Model) Provider() llm.ProviderName {
	return "openai"
}

func (m *Model) ModelID() string {
	return m.model
}

// Wire types for the chat-completions API.

type wireMessage struct {
	Role       string         `json:"role"`
	Content    *string        `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string          `json:"type"`
	Function wireToolDefiner `json:"function"`
}

type wireToolDefiner struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  llm.JSONSchema `json:"parameters"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	MaxTokens   *int64        `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type wireResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one chat completion and maps the reply back into the
// message data model.
func (m *Model) Generate(ctx context.Context, input *llm.LanguageModelInput) (*llm.ModelResponse, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("openai: API key not configured")
	}

	request := wireRequest{
		Model:       m.model,
		Messages:    encodeMessages(input),
		MaxTokens:   input.MaxTokens,
		Temperature: input.Temperature,
	}
	for _, tool := range input.Tools {
		request.Tools = append(request.Tools, wireTool{
			Type: "function",
			Function: wireToolDefiner{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: http %d: %s", resp.StatusCode, string(body))
	}

	var response wireResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("openai: parse response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("openai: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("openai: no completion returned")
	}

	return decodeResponse(&response), nil
}

func encodeMessages(input *llm.LanguageModelInput) []wireMessage {
	var messages []wireMessage
	if input.SystemPrompt != nil && *input.SystemPrompt != "" {
		messages = append(messages, wireMessage{Role: "system", Content: input.SystemPrompt})
	}

	for _, message := range input.Messages {
		switch message.Role() {
		case llm.RoleUser:
			text := llm.TextContent(message.UserMessage.Content)
			messages = append(messages, wireMessage{Role: "user", Content: &text})
		case llm.RoleAssistant:
			wire := wireMessage{Role: "assistant"}
			if text := llm.TextContent(message.AssistantMessage.Content); text != "" {
				wire.Content = &text
			}
			for _, part := range message.AssistantMessage.Content {
				if part.ToolCallPart == nil {
					continue
				}
				wire.ToolCalls = append(wire.ToolCalls, wireToolCall{
					ID:   part.ToolCallPart.ToolCallID,
					Type: "function",
					Function: wireFunction{
						Name:      part.ToolCallPart.ToolName,
						Arguments: string(part.ToolCallPart.Args),
					},
				})
			}
			messages = append(messages, wire)
		case llm.RoleTool:
			// One wire message per tool result.
			for _, part := range message.ToolMessage.Content {
				if part.ToolResultPart == nil {
					continue
				}
				text := llm.TextContent(part.ToolResultPart.Content)
				messages = append(messages, wireMessage{
					Role:       "tool",
					Content:    &text,
					ToolCallID: part.ToolResultPart.ToolCallID,
				})
			}
		}
	}
	return messages
}

func decodeResponse(response *wireResponse) *llm.ModelResponse {
	choice := response.Choices[0].Message

	var content []llm.Part
	if choice.Content != nil && *choice.Content != "" {
		content = append(content, llm.NewTextPart(*choice.Content))
	}
	for _, call := range choice.ToolCalls {
		content = append(content, llm.NewToolCallPart(call.ID, call.Function.Name, json.RawMessage(call.Function.Arguments)))
	}

	result := &llm.ModelResponse{Content: content}
	if response.Usage != nil {
		result.Usage = &llm.ModelUsage{
			InputTokens:  response.Usage.PromptTokens,
			OutputTokens: response.Usage.CompletionTokens,
		}
	}
	return result
}
