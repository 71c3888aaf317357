package analyst

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/breakingread/analyst/agent"
	"github.com/breakingread/analyst/artifact"
	"github.com/breakingread/analyst/tools"
)

// Config is the immutable pipeline configuration, built once at process
// start and passed by reference into the tool registry and the loop.
type Config struct {
	// StepBudget caps reasoning/tool cycles per session.
	StepBudget int `yaml:"step_budget"`
	// Schema is the introspection allow-list and depth table.
	Schema tools.SchemaConfig `yaml:"schema"`
	// Chart configures the rendering service.
	Chart ChartConfig `yaml:"chart"`
	// Storage configures durable chart storage.
	Storage StorageConfig `yaml:"storage"`
	// Search configures the web search provider.
	Search SearchConfig `yaml:"search"`
}

type ChartConfig struct {
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	Bucket string `yaml:"bucket"`
	Host   string `yaml:"host"`
}

type SearchConfig struct {
	Depth string `yaml:"depth"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		StepBudget: agent.DefaultMaxSteps,
		Schema:     tools.DefaultSchemaConfig(),
		Chart:      ChartConfig{BaseURL: tools.DefaultChartBaseURL},
		Storage:    StorageConfig{Host: artifact.DefaultStorageHost},
		Search:     SearchConfig{Depth: "basic"},
	}
}

// LoadConfig overlays a YAML file onto the defaults. An empty path returns
// the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.StepBudget < 0 {
		return Config{}, fmt.Errorf("step_budget must not be negative")
	}
	return cfg, nil
}
