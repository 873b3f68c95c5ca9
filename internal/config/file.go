// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Drill DrillConfig `toml:"drill" yaml:"drill"`
	Log   LogConfig   `toml:"log" yaml:"log"`
}

// DrillConfig maps drill settings. Nil means unset.
type DrillConfig struct {
	Timeout  *int     `toml:"timeout" yaml:"timeout"`
	Level    *int     `toml:"level" yaml:"level"`
	Freq     *float64 `toml:"freq" yaml:"freq"`
	Sound    *bool    `toml:"sound" yaml:"sound"`
	Wordlist *string  `toml:"wordlist" yaml:"wordlist"`
	CapsPct  *float64 `toml:"caps" yaml:"caps"`
	PunctPct *float64 `toml:"punct" yaml:"punct"`
	PunctSet *string  `toml:"punct-set" yaml:"punct-set"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level" yaml:"level"`
	Format *string `toml:"format" yaml:"format"`
	Output *string `toml:"output" yaml:"output"`
}

// LoadConfig reads a config file from the given path. Missing file is not an
// error. Paths ending in .yaml or .yml are decoded as YAML, anything else as TOML.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}
