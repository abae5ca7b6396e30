package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/Anorak001/cide/domain"
)

// Config file names searched in the working directory, in priority order
var defaultConfigFiles = []string{".cide.toml", "cide.toml"}

// TomlConfigLoader loads CIDE configuration from TOML files
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration from the given path. YAML files are
// delegated to the viper loader for compatibility.
func (l *TomlConfigLoader) LoadConfig(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAMLConfig(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig writes the configuration to a TOML file
func (l *TomlConfigLoader) SaveConfig(config *Config, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to serialize config: %s", path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to write config file: %s", path), err)
	}
	return nil
}

// FindConfigFile searches dir for a CIDE config file and returns its path,
// or "" when none exists.
func (l *TomlConfigLoader) FindConfigFile(dir string) string {
	for _, name := range defaultConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
