package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakingread/analyst/llm"
)

func TestBuildChartURL(t *testing.T) {
	params := ChartParams{
		ChartType: "bar",
		Labels:    []string{"Q1", "Q2"},
		Data: []ChartDataset{
			{
				"label": json.RawMessage(`"Series 1"`),
				"data":  json.RawMessage(`[1,2]`),
			},
		},
	}

	chartURL, err := BuildChartURL(DefaultChartBaseURL, params)
	require.NoError(t, err)

	expectedConfig := `{"data":{"datasets":[{"data":[1,2],"label":"Series 1"}],"labels":["Q1","Q2"]},` +
		`"options":{"title":{"display":false,"text":""}},"type":"bar"}`
	expected := fmt.Sprintf(
		"%s?c=%s&width=500&height=300&devicePixelRatio=2&backgroundColor=transparent&version=2.9.4&format=png&encoding=url",
		DefaultChartBaseURL, url.QueryEscape(expectedConfig),
	)
	assert.Equal(t, expected, chartURL)
}

func TestBuildChartURL_Deterministic(t *testing.T) {
	params := ChartParams{
		ChartType: "pie",
		Labels:    []string{"girls", "boys"},
		Data: []ChartDataset{
			{
				"label": json.RawMessage(`"Share"`),
				"data":  json.RawMessage(`[52.3,47.7]`),
			},
		},
		Title: "Students by gender",
	}

	first, err := BuildChartURL(DefaultChartBaseURL, params)
	require.NoError(t, err)
	second, err := BuildChartURL(DefaultChartBaseURL, params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, url.QueryEscape(`"text":"Students by gender"`))
}

func TestBuildChartURL_OverridesDefaults(t *testing.T) {
	params := ChartParams{
		ChartType: "line",
		Labels:    []string{"2016", "2021"},
		Data: []ChartDataset{
			{
				"label": json.RawMessage(`"Score"`),
				"data":  json.RawMessage(`[540,534]`),
			},
		},
		Width:           700,
		BackgroundColor: "white",
	}

	chartURL, err := BuildChartURL(DefaultChartBaseURL, params)
	require.NoError(t, err)
	assert.Contains(t, chartURL, "&width=700&")
	assert.Contains(t, chartURL, "&backgroundColor=white&")
}

func TestBuildChartURL_InvalidParams(t *testing.T) {
	valid := func() ChartParams {
		return ChartParams{
			ChartType: "bar",
			Labels:    []string{"a"},
			Data: []ChartDataset{
				{
					"label": json.RawMessage(`"s"`),
					"data":  json.RawMessage(`[1]`),
				},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*ChartParams)
	}{
		{
			name:   "empty chart_type",
			mutate: func(p *ChartParams) { p.ChartType = "" },
		},
		{
			name:   "missing labels",
			mutate: func(p *ChartParams) { p.Labels = nil },
		},
		{
			name: "dataset missing data key",
			mutate: func(p *ChartParams) {
				p.Data = []ChartDataset{{"label": json.RawMessage(`"A"`)}}
			},
		},
		{
			name: "dataset missing label key",
			mutate: func(p *ChartParams) {
				p.Data = []ChartDataset{{"data": json.RawMessage(`[1]`)}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid()
			tt.mutate(&params)
			_, err := BuildChartURL(DefaultChartBaseURL, params)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestChartTool_ExecuteReportsInvalidArgsToModel(t *testing.T) {
	tool := NewChartTool("")

	// chart_type with the wrong JSON shape must come back as a failed tool
	// result, not a Go error, so the model can correct it and retry.
	result, err := tool.Execute(context.Background(), json.RawMessage(`{"chart_type": 5, "labels": [], "data": []}`))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = tool.Execute(context.Background(), json.RawMessage(`{"chart_type": "bar", "labels": ["a"], "data": [{"label": "A"}]}`))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, llm.TextContent(result.Content), "data")
}

func TestChartTool_ExecuteBuildsURL(t *testing.T) {
	tool := NewChartTool("")

	args := `{
		"chart_type": "bar",
		"labels": ["Egypt", "Jordan"],
		"data": [{"label": "Average score", "data": [378, 381]}]
	}`
	result, err := tool.Execute(context.Background(), json.RawMessage(args))
	require.NoError(t, err)
	require.False(t, result.IsError)

	chartURL := llm.TextContent(result.Content)
	assert.True(t, strings.HasPrefix(chartURL, DefaultChartBaseURL+"?c="))
	assert.Contains(t, chartURL, url.QueryEscape(`"Average score"`))
}
