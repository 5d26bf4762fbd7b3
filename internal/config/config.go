package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	StoreChromem  = "chromem"
	StorePostgres = "postgres"
)

// LLMConfig configures one model endpoint, used for both the embedding model
// and the chat model. Credentials are referenced by environment variable name
// so the YAML file never holds secrets.
type LLMConfig struct {
	Provider    string `yaml:"provider"`
	BaseURL     string `yaml:"base_url"`
	KeyEnv      string `yaml:"key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Key resolves the configured credential from the environment.
func (c *LLMConfig) Key() string {
	if c.KeyEnv == "" {
		return ""
	}
	return os.Getenv(c.KeyEnv)
}

type RAGConfig struct {
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
	TopK         int      `yaml:"top_k"`
	Temperature  *float64 `yaml:"temperature"`
}

type DatabaseConfig struct {
	URL         string `yaml:"url"`
	PasswordEnv string `yaml:"password_env"`
	Debug       bool   `yaml:"debug"`
}

func (c *DatabaseConfig) Password() string {
	if c.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(c.PasswordEnv)
}

type StoreConfig struct {
	Type       string         `yaml:"type"`
	Path       string         `yaml:"path"`
	Collection string         `yaml:"collection"`
	Database   DatabaseConfig `yaml:"database"`
}

type ScraperConfig struct {
	Pages      []string `yaml:"pages"`
	MinTextLen int      `yaml:"min_text_len"`
	DelayMs    int      `yaml:"delay_ms"`
}

type Config struct {
	College    string        `yaml:"college"`
	ContentDir string        `yaml:"content_dir"`
	Store      StoreConfig   `yaml:"store"`
	RAG        RAGConfig     `yaml:"rag"`
	EmbedLLM   LLMConfig     `yaml:"embedding"`
	ChatLLM    LLMConfig     `yaml:"llm"`
	Scraper    ScraperConfig `yaml:"scraper"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.College == "" {
		cfg.College = "ANITS College"
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = "./data/scraped"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = StoreChromem
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./data/index"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "campus"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 500
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 50
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 3
	}
	// A pointer so an explicit zero survives defaulting.
	if cfg.RAG.Temperature == nil {
		temp := 0.3
		cfg.RAG.Temperature = &temp
	}
	applyLLMDefaults(&cfg.EmbedLLM, "all-minilm", 30)
	applyLLMDefaults(&cfg.ChatLLM, "llama3", 60)
	if cfg.Scraper.MinTextLen == 0 {
		cfg.Scraper.MinTextLen = 25
	}
	if cfg.Scraper.DelayMs == 0 {
		cfg.Scraper.DelayMs = 1000
	}
}

func applyLLMDefaults(c *LLMConfig, model string, timeoutSecs int) {
	if c.Provider == "" {
		c.Provider = ProviderOllama
	}
	if c.BaseURL == "" && c.Provider == ProviderOllama {
		c.BaseURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = model
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = timeoutSecs
	}
}

// Validate reports missing credentials or model identifiers once at startup.
// Serving cannot start on a validation error.
func (cfg *Config) Validate() error {
	if err := validateLLM("embedding", &cfg.EmbedLLM); err != nil {
		return err
	}
	if err := validateLLM("llm", &cfg.ChatLLM); err != nil {
		return err
	}
	switch cfg.Store.Type {
	case StoreChromem:
		if cfg.Store.Path == "" {
			return fmt.Errorf("store: path is required")
		}
	case StorePostgres:
		if cfg.Store.Database.URL == "" {
			return fmt.Errorf("store: database.url is required for the postgres store")
		}
	default:
		return fmt.Errorf("store: unknown type %q", cfg.Store.Type)
	}
	return nil
}

func validateLLM(section string, c *LLMConfig) error {
	if c.Model == "" {
		return fmt.Errorf("%s: model is required", section)
	}
	switch c.Provider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.Key() == "" {
			return fmt.Errorf("%s: credential %q is not set in the environment", section, c.KeyEnv)
		}
	default:
		return fmt.Errorf("%s: unknown provider %q", section, c.Provider)
	}
	return nil
}
