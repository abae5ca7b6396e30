package service

import (
	"os"

	"github.com/Anorak001/cide/domain"
	"github.com/Anorak001/cide/internal/config"
)

// BatchConfigurationLoaderImpl loads batch requests from CIDE config files
type BatchConfigurationLoaderImpl struct {
	loader *config.TomlConfigLoader
}

// NewBatchConfigurationLoader creates a new configuration loader
func NewBatchConfigurationLoader() *BatchConfigurationLoaderImpl {
	return &BatchConfigurationLoaderImpl{
		loader: config.NewTomlConfigLoader(),
	}
}

// LoadConfig loads configuration from an explicit path
func (l *BatchConfigurationLoaderImpl) LoadConfig(path string) (*domain.BatchRequest, error) {
	cfg, err := l.loader.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return requestFromConfig(cfg), nil
}

// DefaultConfig returns the default request. A .cide.toml discovered in the
// working directory takes precedence over built-in defaults.
func (l *BatchConfigurationLoaderImpl) DefaultConfig() *domain.BatchRequest {
	if dir, err := os.Getwd(); err == nil {
		if path := l.loader.FindConfigFile(dir); path != "" {
			if req, err := l.LoadConfig(path); err == nil {
				return req
			}
		}
	}
	return requestFromConfig(config.DefaultConfig())
}

// requestFromConfig maps a file configuration onto a batch request
func requestFromConfig(cfg *config.Config) *domain.BatchRequest {
	return &domain.BatchRequest{
		Recursive:        cfg.Input.Recursive,
		IncludePatterns:  cfg.Input.IncludePatterns,
		ExcludePatterns:  cfg.Input.ExcludePatterns,
		Language:         cfg.Analysis.Language,
		Optimized:        cfg.Analysis.Optimized,
		MinHashThreshold: cfg.Engine.SimilarityThreshold,
		ClusterThreshold: cfg.Clustering.Threshold,
		FindClusters:     cfg.Clustering.Enabled,
		NumHashes:        cfg.Engine.NumHashes,
		ShingleSize:      cfg.Engine.ShingleSize,
		NumBands:         cfg.Engine.NumBands,
		RowsPerBand:      cfg.Engine.RowsPerBand,
		OutputFormat:     domain.OutputFormat(cfg.Output.Format),
		ShowDetails:      cfg.Output.ShowDetails,
		SortBy:           domain.SortCriteria(cfg.Output.SortBy),
	}
}
