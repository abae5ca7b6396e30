package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anorak001/cide/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 128, cfg.Engine.NumHashes)
	assert.Equal(t, cfg.Engine.NumHashes, cfg.Engine.NumBands*cfg.Engine.RowsPerBand)
	assert.Equal(t, "python", cfg.Analysis.Language)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ZeroHashes", func(c *Config) { c.Engine.NumHashes = 0 }},
		{"ZeroShingleSize", func(c *Config) { c.Engine.ShingleSize = 0 }},
		{"ZeroBands", func(c *Config) { c.Engine.NumBands = 0 }},
		{"ProductMismatch", func(c *Config) { c.Engine.NumBands = 10 }},
		{"ThresholdTooHigh", func(c *Config) { c.Engine.SimilarityThreshold = 1.2 }},
		{"ThresholdNegative", func(c *Config) { c.Engine.SimilarityThreshold = -0.1 }},
		{"ClusterThresholdTooHigh", func(c *Config) { c.Clustering.Threshold = 2.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeConfig))
		})
	}
}

func TestTomlLoader(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".cide.toml")

		loader := NewTomlConfigLoader()
		original := DefaultConfig()
		original.Engine.NumHashes = 64
		original.Engine.NumBands = 8
		original.Engine.RowsPerBand = 8
		original.Clustering.Enabled = true

		require.NoError(t, loader.SaveConfig(original, path))

		loaded, err := loader.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	})

	t.Run("PartialFileKeepsDefaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".cide.toml")
		content := "[engine]\nsimilarity_threshold = 0.7\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		loaded, err := NewTomlConfigLoader().LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 0.7, loaded.Engine.SimilarityThreshold)
		assert.Equal(t, 128, loaded.Engine.NumHashes)
	})

	t.Run("InvalidValuesRejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".cide.toml")
		content := "[engine]\nnum_hashes = 100\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := NewTomlConfigLoader().LoadConfig(path)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeConfig))
	})

	t.Run("MalformedTomlRejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".cide.toml")
		require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

		_, err := NewTomlConfigLoader().LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("MissingFileReported", func(t *testing.T) {
		_, err := NewTomlConfigLoader().LoadConfig("/nonexistent/.cide.toml")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeFileNotFound))
	})

	t.Run("FindConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		loader := NewTomlConfigLoader()

		assert.Empty(t, loader.FindConfigFile(dir))

		path := filepath.Join(dir, ".cide.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
		assert.Equal(t, path, loader.FindConfigFile(dir))
	})

	t.Run("TemplateIsLoadable", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".cide.toml")
		require.NoError(t, os.WriteFile(path, []byte(DefaultConfigTOML), 0o644))

		loaded, err := NewTomlConfigLoader().LoadConfig(path)
		require.NoError(t, err)
		// All template settings are commented out, so defaults apply
		assert.Equal(t, DefaultConfig(), loaded)
	})
}

func TestYAMLLoader(t *testing.T) {
	t.Run("LoadsYAML", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cide.yaml")
		content := `engine:
  num_hashes: 64
  num_bands: 8
  rows_per_band: 8
output:
  format: json
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		loaded, err := LoadYAMLConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 64, loaded.Engine.NumHashes)
		assert.Equal(t, "json", loaded.Output.Format)
	})

	t.Run("TomlLoaderDelegatesYAML", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cide.yml")
		content := "engine:\n  similarity_threshold: 0.6\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		loaded, err := NewTomlConfigLoader().LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 0.6, loaded.Engine.SimilarityThreshold)
	})
}
