package tools

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/llm"
)

// Depth selects how many sample rows accompany a table description.
type Depth string

const (
	// DepthShallow includes a handful of sample rows.
	DepthShallow Depth = "shallow"
	// DepthDeep includes enough sample rows to expose the full code/answer
	// vocabulary of reference and questionnaire-entry tables.
	DepthDeep Depth = "deep"
)

// TableConfig maps one allow-listed table to its introspection depth.
type TableConfig struct {
	Name  string `yaml:"name" json:"name"`
	Depth Depth  `yaml:"depth" json:"depth"`
}

// SchemaConfig is the static allow-list and depth table for schema
// introspection. It is built once at process start and shared read-only.
type SchemaConfig struct {
	ShallowSampleRows int           `yaml:"shallow_sample_rows" json:"shallow_sample_rows"`
	DeepSampleRows    int           `yaml:"deep_sample_rows" json:"deep_sample_rows"`
	Tables            []TableConfig `yaml:"tables" json:"tables"`
}

// DefaultSchemaConfig returns the PIRLS 2021 allow-list: entry/reference
// tables get the deep sample depth, answer/entity tables the shallow one.
func DefaultSchemaConfig() SchemaConfig {
	deep := []string{
		"benchmarks", "countries", "studentscoreentries",
		"studentquestionnaireentries", "schoolquestionnaireentries",
		"homequestionnaireentries", "curriculumquestionnaireentries",
	}
	shallow := []string{
		"students", "studentquestionnaireanswers", "studentscoreresults", "studentteachers",
		"curricula", "curriculumquestionnaireanswers",
		"homes", "homequestionnaireanswers",
		"schools", "schoolquestionnaireanswers",
		"teachers", "teacherquestionnaireanswers", "teacherquestionnaireentries",
	}

	cfg := SchemaConfig{
		ShallowSampleRows: 5,
		DeepSampleRows:    200,
	}
	for _, name := range deep {
		cfg.Tables = append(cfg.Tables, TableConfig{Name: name, Depth: DepthDeep})
	}
	for _, name := range shallow {
		cfg.Tables = append(cfg.Tables, TableConfig{Name: name, Depth: DepthShallow})
	}
	return cfg
}

func (c SchemaConfig) sampleRows(depth Depth) int {
	if depth == DepthDeep {
		return c.DeepSampleRows
	}
	return c.ShallowSampleRows
}

// SchemaTool resolves structural metadata for a curated subset of tables.
type SchemaTool struct {
	db  *sql.DB
	cfg SchemaConfig
}

// NewSchemaTool creates a schema introspection tool using the given
// allow-list configuration.
func NewSchemaTool(db *sql.DB, cfg SchemaConfig) *SchemaTool {
	return &SchemaTool{db: db, cfg: cfg}
}

func (t *SchemaTool) Name() string {
	return SchemaToolName
}

func (t *SchemaTool) Description() string {
	return "Get the schema and sample rows for tables in a comma-separated list. " +
		"Only PIRLS 2021 tables are resolvable; unknown names are ignored."
}

func (t *SchemaTool) Parameters() llm.JSONSchema {
	return llm.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"table_names": map[string]any{
				"type":        "string",
				"description": "Comma-separated list of table names, e.g. 'students, benchmarks'.",
			},
		},
		"required": []string{"table_names"},
	}
}

type schemaParams struct {
	TableNames string `json:"table_names"`
}

// Execute resolves the requested names against the allow-list. Output
// follows allow-list order regardless of the caller's input order; names
// outside the allow-list are silently ignored; a table that cannot be
// described yields an explanatory slot instead of aborting the call.
func (t *SchemaTool) Execute(ctx context.Context, args json.RawMessage) (agent.ToolResult, error) {
	var params schemaParams
	if err := json.Unmarshal(args, &params); err != nil {
		return agent.ErrorResult(fmt.Sprintf("invalid schema arguments: %v", err)), nil
	}

	requested := make(map[string]struct{})
	for _, name := range strings.Split(params.TableNames, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			requested[name] = struct{}{}
		}
	}

	var sections []string
	for _, table := range t.cfg.Tables {
		if _, ok := requested[table.Name]; !ok {
			continue
		}
		description, err := DescribeTable(ctx, t.db, table.Name, t.cfg.sampleRows(table.Depth))
		if err != nil {
			description = fmt.Sprintf("Error: table %q could not be described: %v", table.Name, err)
		}
		sections = append(sections, description)
	}

	return agent.TextResult(strings.Join(sections, "\n\n")), nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DescribeTable produces a textual structural description of one table:
// column names and driver-reported types followed by up to sampleRows
// sample rows. It works against any database/sql driver.
func DescribeTable(ctx context.Context, db *sql.DB, table string, sampleRows int) (string, error) {
	if !identPattern.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q LIMIT %d`, table, sampleRows))
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table %s\n", table)
	sb.WriteString("Columns:\n")
	for i, column := range columns {
		typeName := ""
		if i < len(columnTypes) {
			typeName = columnTypes[i].DatabaseTypeName()
		}
		if typeName == "" {
			fmt.Fprintf(&sb, "  %s\n", column)
		} else {
			fmt.Fprintf(&sb, "  %s (%s)\n", column, typeName)
		}
	}

	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	count := 0
	var samples []string
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return "", err
		}
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = formatValue(v)
		}
		samples = append(samples, strings.Join(fields, "\t"))
		count++
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	fmt.Fprintf(&sb, "%d sample rows:\n", count)
	sb.WriteString(strings.Join(samples, "\n"))
	return sb.String(), nil
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(value)
	default:
		return fmt.Sprint(value)
	}
}
