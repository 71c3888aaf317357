package analyst_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	analyst "github.com/breakingread/analyst"
	"github.com/breakingread/analyst/llm"
	"github.com/breakingread/analyst/tools"
)

func queryCall(id, query string) llm.Part {
	args, _ := json.Marshal(map[string]string{"query": query})
	return llm.NewToolCallPart(id, tools.QueryToolName, args)
}

func chartResult(id, url string) llm.Message {
	return llm.NewToolMessage(llm.NewToolResultPart(
		id, tools.ChartToolName, []llm.Part{llm.NewTextPart(url)}, false,
	))
}

func TestExtractArtifacts_Empty(t *testing.T) {
	artifacts := analyst.ExtractArtifacts([]llm.Message{
		llm.NewUserMessage(llm.NewTextPart("question")),
		llm.NewAssistantMessage(llm.NewTextPart("answer")),
	})
	assert.Equal(t, analyst.Artifacts{}, artifacts)
}

func TestExtractArtifacts_LastQueryWins(t *testing.T) {
	messages := []llm.Message{
		llm.NewUserMessage(llm.NewTextPart("question")),
		llm.NewAssistantMessage(queryCall("call_1", "SELECT 1")),
		llm.NewToolMessage(llm.NewToolResultPart("call_1", tools.QueryToolName, []llm.Part{llm.NewTextPart("1")}, false)),
		llm.NewAssistantMessage(queryCall("call_2", "SELECT 2")),
		llm.NewToolMessage(llm.NewToolResultPart("call_2", tools.QueryToolName, []llm.Part{llm.NewTextPart("2")}, false)),
		llm.NewAssistantMessage(llm.NewTextPart("done")),
	}

	artifacts := analyst.ExtractArtifacts(messages)
	assert.Equal(t, "SELECT 2", artifacts.ExecutedQuery)
}

func TestExtractArtifacts_OnlyFirstCallOfTurnIsSeen(t *testing.T) {
	// A query call in second position of a multi-call turn stays invisible.
	messages := []llm.Message{
		llm.NewAssistantMessage(
			llm.NewToolCallPart("call_1", tools.SchemaToolName, json.RawMessage(`{"table_names": "students"}`)),
			queryCall("call_2", "SELECT COUNT(*) FROM students"),
		),
	}

	artifacts := analyst.ExtractArtifacts(messages)
	assert.Empty(t, artifacts.ExecutedQuery)
}

func TestExtractArtifacts_LastChartRefWins(t *testing.T) {
	messages := []llm.Message{
		chartResult("call_1", "https://quickchart.io/chart?c=first"),
		chartResult("call_2", "https://quickchart.io/chart?c=second"),
	}

	artifacts := analyst.ExtractArtifacts(messages)
	assert.Equal(t, "https://quickchart.io/chart?c=second", artifacts.ChartRef)
}

func TestExtractArtifacts_IgnoresOtherToolResults(t *testing.T) {
	messages := []llm.Message{
		llm.NewToolMessage(llm.NewToolResultPart(
			"call_1", tools.SearchToolName, []llm.Part{llm.NewTextPart("[]")}, false,
		)),
	}

	artifacts := analyst.ExtractArtifacts(messages)
	assert.Empty(t, artifacts.ChartRef)
}

func TestExtractArtifacts_MalformedQueryArgsAreSkipped(t *testing.T) {
	messages := []llm.Message{
		llm.NewAssistantMessage(llm.NewToolCallPart("call_1", tools.QueryToolName, json.RawMessage(`not json`))),
		llm.NewAssistantMessage(queryCall("call_2", "SELECT 42")),
	}

	artifacts := analyst.ExtractArtifacts(messages)
	assert.Equal(t, "SELECT 42", artifacts.ExecutedQuery)
}
