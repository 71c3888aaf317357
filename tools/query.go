package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/llm"
)

// DefaultMaxQueryRows caps result size; the querying prompt tells the model
// the same limit.
const DefaultMaxQueryRows = 100

// QueryTool executes read queries against the dataset and returns the
// result as a tab-separated text table.
type QueryTool struct {
	db      *sql.DB
	maxRows int
}

// NewQueryTool creates a query execution tool with the default row cap.
func NewQueryTool(db *sql.DB) *QueryTool {
	return &QueryTool{db: db, maxRows: DefaultMaxQueryRows}
}

func (t *QueryTool) Name() string {
	return QueryToolName
}

func (t *QueryTool) Description() string {
	return "Execute a SQL query against the PIRLS 2021 database and return the result. " +
		"Prefer aggregate queries; never request more than 100 rows."
}

func (t *QueryTool) Parameters() llm.JSONSchema {
	return llm.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The SQL query to execute.",
			},
		},
		"required": []string{"query"},
	}
}

type queryParams struct {
	Query string `json:"query"`
}

// Execute runs the query. Database errors are reported back to the model
// as failed tool results so it can rewrite the query and retry.
func (t *QueryTool) Execute(ctx context.Context, args json.RawMessage) (agent.ToolResult, error) {
	var params queryParams
	if err := json.Unmarshal(args, &params); err != nil {
		return agent.ErrorResult(fmt.Sprintf("invalid query arguments: %v", err)), nil
	}
	if strings.TrimSpace(params.Query) == "" {
		return agent.ErrorResult("query is empty"), nil
	}

	rows, err := t.db.QueryContext(ctx, params.Query)
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("query failed: %v", err)), nil
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return agent.ErrorResult(fmt.Sprintf("query failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, "\t"))
	sb.WriteString("\n")

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	count := 0
	truncated := false
	for rows.Next() {
		if count >= t.maxRows {
			truncated = true
			break
		}
		if err := rows.Scan(pointers...); err != nil {
			return agent.ErrorResult(fmt.Sprintf("query failed: %v", err)), nil
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = formatValue(v)
		}
		sb.WriteString(strings.Join(fields, "\t"))
		sb.WriteString("\n")
		count++
	}
	if err := rows.Err(); err != nil {
		return agent.ErrorResult(fmt.Sprintf("query failed: %v", err)), nil
	}

	if truncated {
		fmt.Fprintf(&sb, "[result truncated to %d rows]\n", t.maxRows)
	}

	return agent.TextResult(sb.String()), nil
}
