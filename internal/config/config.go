package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type RoutingConfig struct {
	SinglePassMax int `toml:"single_pass_max"`
	ThreeWaveMax  int `toml:"three_wave_max"`
	FourWaveMax   int `toml:"four_wave_max"`
}

type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

type DedupeConfig struct {
	Strategies     []string `toml:"strategies"`
	FuzzyThreshold float64  `toml:"fuzzy_threshold"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type PatternsConfig struct {
	Path string `toml:"path"`
}

type ConcurrencyConfig struct {
	ChunkWorkers int `toml:"chunk_workers"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Routing     RoutingConfig     `toml:"routing"`
	Chunking    ChunkingConfig    `toml:"chunking"`
	Dedupe      DedupeConfig      `toml:"dedupe"`
	Patterns    PatternsConfig    `toml:"patterns"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
