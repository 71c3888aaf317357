package analyst

import (
	"encoding/json"

	"github.com/breakingread/analyst/llm"
	"github.com/breakingread/analyst/tools"
)

// Artifacts holds the structured values recovered from a completed
// transcript. They are derived per session, never stored independently.
type Artifacts struct {
	// ExecutedQuery is the query of the last matching query-execution tool
	// call, or empty when none was issued.
	ExecutedQuery string
	// ChartRef is the content of the last chart-rendering tool result, a
	// transient rendering-service URL, or empty when no chart was produced.
	ChartRef string
}

// ExtractArtifacts scans the transcript in order, keeping the last match
// for each artifact.
//
// Query extraction inspects only the first tool call of each assistant
// turn; later calls in a multi-call turn are invisible to it. This is a
// known limitation of the scan, kept as-is.
func ExtractArtifacts(messages []llm.Message) Artifacts {
	var artifacts Artifacts

	for _, message := range messages {
		switch message.Role() {
		case llm.RoleAssistant:
			for _, part := range message.AssistantMessage.Content {
				if part.ToolCallPart == nil {
					continue
				}
				if part.ToolCallPart.ToolName == tools.QueryToolName {
					var args struct {
						Query string `json:"query"`
					}
					if err := json.Unmarshal(part.ToolCallPart.Args, &args); err == nil && args.Query != "" {
						artifacts.ExecutedQuery = args.Query
					}
				}
				break
			}
		case llm.RoleTool:
			for _, part := range message.ToolMessage.Content {
				if part.ToolResultPart != nil && part.ToolResultPart.ToolName == tools.ChartToolName {
					artifacts.ChartRef = llm.TextContent(part.ToolResultPart.Content)
				}
			}
		}
	}

	return artifacts
}
