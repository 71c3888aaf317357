// Package tools implements the capabilities exposed to the reasoning loop:
// schema introspection over an allow-listed table set, read-only query
// execution, chart URL generation, and web search.
package tools

import (
	"database/sql"
	"errors"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/search"
)

// Tool names as declared to the model. The transcript extractor matches on
// these, so they are part of the pipeline's wire contract.
const (
	QueryToolName  = "execute_query"
	SchemaToolName = "table_schema"
	ChartToolName  = "generate_chart_url"
	SearchToolName = "internet_search"
)

// ErrInvalidArgument reports malformed tool-call arguments. It is the only
// failure class surfaced back to the reasoning step; everything else
// degrades locally.
var ErrInvalidArgument = errors.New("invalid argument")

// Registry builds the fixed tool set offered to a session.
func Registry(db *sql.DB, schemaCfg SchemaConfig, chartBaseURL string, provider search.Provider) []agent.Tool {
	return []agent.Tool{
		NewQueryTool(db),
		NewSchemaTool(db, schemaCfg),
		NewChartTool(chartBaseURL),
		NewSearchTool(provider),
	}
}
