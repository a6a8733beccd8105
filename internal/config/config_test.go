package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craft-cost/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craft.json")
	data := `{
  "input": {"materials_path": "m.csv", "delimiter": ";"},
  "calculation": {"success_rate": 80},
  "output": {"variant": "B"}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "m.csv", cfg.Input.MaterialsPath)
	assert.Equal(t, "bom.csv", cfg.Input.RecipesPath, "unset fields keep defaults")
	assert.Equal(t, ";", cfg.Input.Delimiter)
	assert.Equal(t, 80, cfg.Calculation.SuccessRate)
	assert.Equal(t, 25, cfg.Calculation.FallbackSuccessRate)
	assert.Equal(t, "B", cfg.Output.Variant)
	assert.Equal(t, "原料名称", cfg.Input.Columns.MaterialName)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craft.yaml")
	data := `
input:
  recipes_path: recipes.csv
  columns:
    material_name: Name
calculation:
  fallback_success_rate: 40
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "recipes.csv", cfg.Input.RecipesPath)
	assert.Equal(t, "Name", cfg.Input.Columns.MaterialName)
	assert.Equal(t, "单价", cfg.Input.Columns.MaterialPrice)
	assert.Equal(t, 40, cfg.Calculation.FallbackSuccessRate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"rate out of range", "c.json", `{"calculation": {"success_rate": 0}}`},
		{"fallback out of range", "c.yml", "calculation:\n  fallback_success_rate: 101\n"},
		{"bad variant", "c.json", `{"output": {"variant": "C"}}`},
		{"bad delimiter", "c.json", `{"input": {"delimiter": ";;"}}`},
		{"malformed", "c.json", `{"input": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig), "got %v", err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out/craft.json", "out/craft.yaml"} {
		path := filepath.Join(dir, name)
		cfg := Default()
		cfg.Output.CurrencyLabel = "金"

		require.NoError(t, cfg.Save(path))
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestGlobalConfig(t *testing.T) {
	orig := Get()
	t.Cleanup(func() { Set(orig) })

	cfg := Default()
	cfg.Version = "test"
	Set(cfg)
	assert.Equal(t, "test", Get().Version)
}
