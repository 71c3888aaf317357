package agent

import (
	"context"
	"encoding/json"

	"github.com/breakingread/analyst/llm"
)

// Tool is a capability the model can invoke during a session. Any struct
// that implements the interface can be registered with a session.
type Tool interface {
	// Name of the tool.
	Name() string
	// A description of the tool to instruct the model how and when to use it.
	Description() string
	// The JSON schema of the parameters that the tool accepts. The type must
	// be "object".
	Parameters() llm.JSONSchema
	// Execute runs the tool with the given arguments.
	//
	// If the tool returns an error, the session is interrupted and the error
	// propagated. To let the model observe a failure and re-reason instead,
	// the tool must return a ToolResult with IsError set to true.
	Execute(ctx context.Context, args json.RawMessage) (ToolResult, error)
}

type ToolResult struct {
	Content []llm.Part `json:"content"`
	IsError bool       `json:"is_error"`
}

// ErrorResult builds a tool result that reports a failure back to the model.
func ErrorResult(msg string) ToolResult {
	return ToolResult{
		Content: []llm.Part{llm.NewTextPart(msg)},
		IsError: true,
	}
}

// TextResult builds a successful tool result carrying plain text.
func TextResult(text string) ToolResult {
	return ToolResult{
		Content: []llm.Part{llm.NewTextPart(text)},
	}
}
