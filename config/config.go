package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	AttackMap AttackMapConfig `yaml:"attackmap"`
}

// AttackMapConfig is the project configuration.
type AttackMapConfig struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Resolver ResolverConfig `yaml:"resolver"`
	Layer    LayerConfig    `yaml:"layer"`
	Coverage CoverageConfig `yaml:"coverage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatasetConfig controls where the ATT&CK bundle comes from.
type DatasetConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
	Cache   CacheConfig   `yaml:"cache"`
}

// CacheConfig controls the optional Redis bundle cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Redis   RedisConfig   `yaml:"redis"`
	TTL     time.Duration `yaml:"ttl"`
}

// RedisConfig controls Redis access for the bundle cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// ResolverConfig controls group resolution.
type ResolverConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	MaxSuggestions int     `yaml:"max_suggestions"`
}

// LayerConfig controls the emitted Navigator layer.
type LayerConfig struct {
	Score        int    `yaml:"score"`
	Color        string `yaml:"color"`
	CoveredColor string `yaml:"covered_color"`
}

// CoverageConfig controls the Sigma detection-coverage overlay.
type CoverageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
