package llm_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/breakingread/analyst/llm"
)

func TestMessageRoleDiscriminant(t *testing.T) {
	tests := []struct {
		name    string
		message llm.Message
		role    llm.Role
	}{
		{"user", llm.NewUserMessage(llm.NewTextPart("hi")), llm.RoleUser},
		{"assistant", llm.NewAssistantMessage(llm.NewTextPart("hi")), llm.RoleAssistant},
		{"tool", llm.NewToolMessage(llm.NewToolResultPart("c1", "t", nil, false)), llm.RoleTool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.message.Role() != tt.role {
				t.Errorf("expected role %q, got %q", tt.role, tt.message.Role())
			}
		})
	}
}

func TestMessageJSONRoundTrip(t *testing.T) {
	message := llm.NewAssistantMessage(
		llm.NewTextPart("Running a query."),
		llm.NewToolCallPart("call_1", "execute_query", json.RawMessage(`{"query":"SELECT 1"}`)),
	)

	data, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded llm.Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(message, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if decoded.Role() != llm.RoleAssistant {
		t.Errorf("expected assistant role, got %q", decoded.Role())
	}
}

func TestPartUnmarshalUnknownType(t *testing.T) {
	var part llm.Part
	err := json.Unmarshal([]byte(`{"type": "audio"}`), &part)
	if err == nil {
		t.Fatal("expected an error for unknown part type")
	}
}

func TestTextContent(t *testing.T) {
	parts := []llm.Part{
		llm.NewTextPart("Hello, "),
		llm.NewToolCallPart("call_1", "tool", json.RawMessage(`{}`)),
		llm.NewTextPart("world."),
	}
	if got := llm.TextContent(parts); got != "Hello, world." {
		t.Errorf("expected %q, got %q", "Hello, world.", got)
	}
}

func TestModelUsageAdd(t *testing.T) {
	usage := &llm.ModelUsage{InputTokens: 10, OutputTokens: 5}
	usage.Add(&llm.ModelUsage{InputTokens: 3, OutputTokens: 2})
	usage.Add(nil)

	want := &llm.ModelUsage{InputTokens: 13, OutputTokens: 7}
	if diff := cmp.Diff(want, usage); diff != "" {
		t.Errorf("usage mismatch (-want +got):\n%s", diff)
	}
}
