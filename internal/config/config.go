package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"context-signals-go/internal/analyzer"
	"context-signals-go/internal/dictionary"
	"context-signals-go/internal/logger"
	"context-signals-go/internal/tokenizer"
)

const (
	BackendKagome   = "kagome"
	BackendFallback = "fallback"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Analyzer   analyzer.Config  `yaml:"analyzer"`
	LogLevel   string           `yaml:"log_level"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// DictionaryConfig.Dir holds per-category override files; empty means
// embedded tables only.
type DictionaryConfig struct {
	Dir string `yaml:"dir"`
}

type TokenizerConfig struct {
	Backend      string        `yaml:"backend"`
	InitRetries  int           `yaml:"init_retries"`
	InitInterval time.Duration `yaml:"init_interval"`
}

type DatasetConfig struct {
	Path      string `yaml:"path"`
	DemoLimit int    `yaml:"demo_limit"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
		Tokenizer: TokenizerConfig{
			Backend:      BackendKagome,
			InitRetries:  2,
			InitInterval: 200 * time.Millisecond,
		},
		Dataset: DatasetConfig{
			Path:      "messages.xlsx",
			DemoLimit: 5,
		},
		Analyzer: analyzer.DefaultConfig(),
		LogLevel: "info",
	}
}

// Load starts from the defaults, applies config.yaml (or the file named by
// CONFIG_PATH) when present, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !os.IsNotExist(err):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DICTIONARY_DIR"); v != "" {
		cfg.Dictionary.Dir = v
	}
	if v := os.Getenv("TOKENIZER_BACKEND"); v != "" {
		cfg.Tokenizer.Backend = v
	}
	if v := os.Getenv("TOKENIZER_INIT_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("TOKENIZER_INIT_RETRIES: %w", err)
		}
		cfg.Tokenizer.InitRetries = n
	}
	if v := os.Getenv("BATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("BATCH_CONCURRENCY: %w", err)
		}
		cfg.Analyzer.BatchConcurrency = n
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Tokenizer.Backend {
	case BackendKagome, BackendFallback:
	default:
		return fmt.Errorf("unknown tokenizer backend %q", c.Tokenizer.Backend)
	}
	if c.Tokenizer.InitRetries < 0 {
		return fmt.Errorf("tokenizer init_retries must not be negative")
	}
	if err := c.Analyzer.Validate(); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}
	return nil
}

// NewAnalyzer loads the dictionaries and wires the tokenizer backend the
// config names.
func (c *Config) NewAnalyzer(log *logger.Logger) (*analyzer.Analyzer, error) {
	dicts, err := dictionary.Load(c.Dictionary.Dir)
	if err != nil {
		return nil, err
	}
	log.WithField("versions", dicts.Versions()).Info("dictionaries loaded")

	var factory tokenizer.Factory
	if c.Tokenizer.Backend == BackendKagome {
		factory = tokenizer.NewKagomeFactory()
	}
	tok := tokenizer.NewService(factory,
		tokenizer.WithLogger(log),
		tokenizer.WithInitRetries(c.Tokenizer.InitRetries, c.Tokenizer.InitInterval),
	)
	return analyzer.New(dicts, tok, c.Analyzer, analyzer.WithLogger(log))
}
