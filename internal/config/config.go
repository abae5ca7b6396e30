package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/constants"
)

// Config is the unified CIDE configuration, loadable from .cide.toml
// (preferred) or a YAML file.
type Config struct {
	Engine     EngineConfig     `toml:"engine" yaml:"engine" mapstructure:"engine"`
	Analysis   AnalysisConfig   `toml:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Input      InputConfig      `toml:"input" yaml:"input" mapstructure:"input"`
	Output     OutputConfig     `toml:"output" yaml:"output" mapstructure:"output"`
	Clustering ClusteringConfig `toml:"clustering" yaml:"clustering" mapstructure:"clustering"`
}

// EngineConfig holds the similarity engine tuning parameters
type EngineConfig struct {
	NumHashes           int     `toml:"num_hashes" yaml:"num_hashes" mapstructure:"num_hashes"`
	ShingleSize         int     `toml:"shingle_size" yaml:"shingle_size" mapstructure:"shingle_size"`
	NumBands            int     `toml:"num_bands" yaml:"num_bands" mapstructure:"num_bands"`
	RowsPerBand         int     `toml:"rows_per_band" yaml:"rows_per_band" mapstructure:"rows_per_band"`
	SimilarityThreshold float64 `toml:"similarity_threshold" yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// AnalysisConfig holds comparison-mode settings
type AnalysisConfig struct {
	Language  string `toml:"language" yaml:"language" mapstructure:"language"`
	Optimized bool   `toml:"optimized" yaml:"optimized" mapstructure:"optimized"`
}

// InputConfig holds file selection settings
type InputConfig struct {
	Recursive       bool     `toml:"recursive" yaml:"recursive" mapstructure:"recursive"`
	IncludePatterns []string `toml:"include_patterns" yaml:"include_patterns" mapstructure:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns" yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
}

// OutputConfig holds output formatting settings
type OutputConfig struct {
	Format      string `toml:"format" yaml:"format" mapstructure:"format"`
	ShowDetails bool   `toml:"show_details" yaml:"show_details" mapstructure:"show_details"`
	SortBy      string `toml:"sort_by" yaml:"sort_by" mapstructure:"sort_by"`
}

// ClusteringConfig holds duplicate-group detection settings
type ClusteringConfig struct {
	Enabled   bool    `toml:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Threshold float64 `toml:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			NumHashes:           constants.DefaultNumHashes,
			ShingleSize:         constants.DefaultShingleSize,
			NumBands:            constants.DefaultNumBands,
			RowsPerBand:         constants.DefaultRowsPerBand,
			SimilarityThreshold: constants.DefaultSimilarityThreshold,
		},
		Analysis: AnalysisConfig{
			Language:  "python",
			Optimized: true,
		},
		Input: InputConfig{
			Recursive:       true,
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{"**/test_*.py", "**/*_test.py"},
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			SortBy:      "similarity",
		},
		Clustering: ClusteringConfig{
			Enabled:   false,
			Threshold: constants.DefaultClusterThreshold,
		},
	}
}

// Validate checks the configuration for consistency. Violations fail fast
// before any index is constructed.
func (c *Config) Validate() error {
	e := c.Engine
	if e.NumHashes < 1 {
		return domain.NewConfigError("engine.num_hashes must be >= 1", nil)
	}
	if e.ShingleSize < 1 {
		return domain.NewConfigError("engine.shingle_size must be >= 1", nil)
	}
	if e.NumBands < 1 || e.RowsPerBand < 1 {
		return domain.NewConfigError("engine.num_bands and engine.rows_per_band must be >= 1", nil)
	}
	if e.NumHashes != e.NumBands*e.RowsPerBand {
		return domain.NewConfigError(fmt.Sprintf(
			"engine.num_hashes (%d) must equal num_bands (%d) * rows_per_band (%d)",
			e.NumHashes, e.NumBands, e.RowsPerBand), nil)
	}
	if e.SimilarityThreshold < 0.0 || e.SimilarityThreshold > 1.0 {
		return domain.NewConfigError(fmt.Sprintf(
			"engine.similarity_threshold %.3f must be between 0.0 and 1.0", e.SimilarityThreshold), nil)
	}
	if c.Clustering.Threshold < 0.0 || c.Clustering.Threshold > 1.0 {
		return domain.NewConfigError(fmt.Sprintf(
			"clustering.threshold %.3f must be between 0.0 and 1.0", c.Clustering.Threshold), nil)
	}
	return nil
}

// LoadYAMLConfig loads configuration from a YAML file via viper
func LoadYAMLConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
