package analyst_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analyst "github.com/breakingread/analyst"
	"github.com/breakingread/analyst/tools"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := analyst.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, analyst.DefaultConfig(), cfg)
	assert.Equal(t, 150, cfg.StepBudget)
	assert.Equal(t, tools.DefaultChartBaseURL, cfg.Chart.BaseURL)
	assert.Equal(t, "basic", cfg.Search.Depth)
}

func TestLoadConfig_OverlaysFileOntoDefaults(t *testing.T) {
	path := writeConfigFile(t, `
step_budget: 20
storage:
  bucket: my-charts
schema:
  deep_sample_rows: 50
`)

	cfg, err := analyst.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.StepBudget)
	assert.Equal(t, "my-charts", cfg.Storage.Bucket)
	assert.Equal(t, 50, cfg.Schema.DeepSampleRows)

	// Untouched keys keep their defaults.
	assert.Equal(t, "s3.amazonaws.com", cfg.Storage.Host)
	assert.Equal(t, 5, cfg.Schema.ShallowSampleRows)
}

func TestLoadConfig_TableOverride(t *testing.T) {
	path := writeConfigFile(t, `
schema:
  tables:
    - name: benchmarks
      depth: deep
    - name: students
      depth: shallow
`)

	cfg, err := analyst.LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Schema.Tables, 2)
	assert.Equal(t, tools.TableConfig{Name: "benchmarks", Depth: tools.DepthDeep}, cfg.Schema.Tables[0])
}

func TestLoadConfig_NegativeBudgetRejected(t *testing.T) {
	path := writeConfigFile(t, "step_budget: -1\n")

	_, err := analyst.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step_budget")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := analyst.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
