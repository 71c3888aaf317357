package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/llm"
)

// DefaultChartBaseURL is the rendering-service endpoint that lazily renders
// a chart when the returned URL is dereferenced.
const DefaultChartBaseURL = "https://quickchart.io/chart"

// ChartDataset is one named series. Extra keys (colors, fills) are passed
// through to the renderer untouched.
type ChartDataset map[string]json.RawMessage

// ChartParams describes a renderable chart.
type ChartParams struct {
	ChartType        string         `json:"chart_type"`
	Labels           []string       `json:"labels"`
	Data             []ChartDataset `json:"data"`
	Title            string         `json:"title,omitempty"`
	Width            int            `json:"width,omitempty"`
	Height           int            `json:"height,omitempty"`
	DevicePixelRatio int            `json:"device_pixel_ratio,omitempty"`
	BackgroundColor  string         `json:"background_color,omitempty"`
	Version          string         `json:"version,omitempty"`
	Format           string         `json:"format,omitempty"`
	Encoding         string         `json:"encoding,omitempty"`
}

func (p *ChartParams) applyDefaults() {
	if p.Width == 0 {
		p.Width = 500
	}
	if p.Height == 0 {
		p.Height = 300
	}
	if p.DevicePixelRatio == 0 {
		p.DevicePixelRatio = 2
	}
	if p.BackgroundColor == "" {
		p.BackgroundColor = "transparent"
	}
	if p.Version == "" {
		p.Version = "2.9.4"
	}
	if p.Format == "" {
		p.Format = "png"
	}
	if p.Encoding == "" {
		p.Encoding = "url"
	}
}

func (p *ChartParams) validate() error {
	if p.ChartType == "" {
		return fmt.Errorf("%w: chart_type must be a non-empty string", ErrInvalidArgument)
	}
	if p.Labels == nil {
		return fmt.Errorf("%w: labels must be a list", ErrInvalidArgument)
	}
	for i, dataset := range p.Data {
		if _, ok := dataset["label"]; !ok {
			return fmt.Errorf("%w: data[%d] is missing the 'label' key", ErrInvalidArgument, i)
		}
		if _, ok := dataset["data"]; !ok {
			return fmt.Errorf("%w: data[%d] is missing the 'data' key", ErrInvalidArgument, i)
		}
	}
	return nil
}

// BuildChartURL serializes the chart spec into the c= query parameter of
// the rendering-service URL. No network call is made; whoever dereferences
// the URL triggers the render.
func BuildChartURL(baseURL string, params ChartParams) (string, error) {
	if err := params.validate(); err != nil {
		return "", err
	}
	params.applyDefaults()

	config := map[string]any{
		"type": params.ChartType,
		"data": map[string]any{
			"labels":   params.Labels,
			"datasets": params.Data,
		},
		"options": map[string]any{
			"title": map[string]any{
				"display": params.Title != "",
				"text":    params.Title,
			},
		},
	}

	encoded, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	return fmt.Sprintf(
		"%s?c=%s&width=%d&height=%d&devicePixelRatio=%d&backgroundColor=%s&version=%s&format=%s&encoding=%s",
		baseURL,
		url.QueryEscape(string(encoded)),
		params.Width,
		params.Height,
		params.DevicePixelRatio,
		url.QueryEscape(params.BackgroundColor),
		params.Version,
		params.Format,
		params.Encoding,
	), nil
}

// ChartTool builds rendering-service URLs for bar, line, pie and other
// chart types.
type ChartTool struct {
	baseURL string
}

// NewChartTool creates a chart tool. An empty baseURL selects the default
// rendering service.
func NewChartTool(baseURL string) *ChartTool {
	if baseURL == "" {
		baseURL = DefaultChartBaseURL
	}
	return &ChartTool{baseURL: baseURL}
}

func (t *ChartTool) Name() string {
	return ChartToolName
}

func (t *ChartTool) Description() string {
	return "Generates a chart rendering URL for a variety of visualizations (bar, pie, line charts, etc.). " +
		"Each dataset must be an object with 'label' and 'data' keys."
}

func (t *ChartTool) Parameters() llm.JSONSchema {
	return llm.JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"chart_type": map[string]any{
				"type":        "string",
				"description": "Type of chart, e.g. 'bar', 'line', 'pie'.",
			},
			"labels": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Labels for the x-axis or categories.",
			},
			"data": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":        "object",
					"description": "A dataset with 'label' and 'data' keys, e.g. {\"label\": \"Dataset1\", \"data\": [10, 20, 30]}.",
				},
				"description": "Data series for the chart.",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Optional title for the chart.",
			},
			"width": map[string]any{
				"type":        "integer",
				"description": "Width of the image in pixels (default 500).",
			},
			"height": map[string]any{
				"type":        "integer",
				"description": "Height of the image in pixels (default 300).",
			},
			"device_pixel_ratio": map[string]any{
				"type":        "integer",
				"description": "Device pixel ratio, typically 1 or 2 (default 2).",
			},
			"background_color": map[string]any{
				"type":        "string",
				"description": "Background color in rgb, hex, or color name (default transparent).",
			},
		},
		"required": []string{"chart_type", "labels", "data"},
	}
}

func (t *ChartTool) Execute(_ context.Context, args json.RawMessage) (agent.ToolResult, error) {
	var params ChartParams
	if err := json.Unmarshal(args, &params); err != nil {
		return agent.ErrorResult(fmt.Sprintf("invalid chart arguments: %v", err)), nil
	}

	chartURL, err := BuildChartURL(t.baseURL, params)
	if err != nil {
		// Surfaced as a tool failure so the model can correct the spec
		// and retry.
		return agent.ErrorResult(err.Error()), nil
	}

	return agent.TextResult(chartURL), nil
}
