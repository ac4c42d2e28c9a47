package config

import "time"

// ProviderType identifies an embedding or LLM backend.
type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
)

// Config is the top-level shopassist configuration, corresponding to shopassist.yml.
type Config struct {
	Server      ServerConfig    `yaml:"server" koanf:"server"`
	DataDir     string          `yaml:"data_dir" koanf:"data_dir"`
	IntentsFile string          `yaml:"intents_file" koanf:"intents_file"`
	Embedding   EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Rewrite     RewriteConfig   `yaml:"rewrite" koanf:"rewrite"`
	Matcher     MatcherConfig   `yaml:"matcher" koanf:"matcher"`
	Line        LineConfig      `yaml:"line" koanf:"line"`
	Catalog     CatalogConfig   `yaml:"catalog" koanf:"catalog"`
	Session     SessionConfig   `yaml:"session" koanf:"session"`
	Timeouts    TimeoutsConfig  `yaml:"timeouts" koanf:"timeouts"`
	Log         LogConfig       `yaml:"log" koanf:"log"`
}

type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// EmbeddingConfig selects the sentence embedding model used for intents.
type EmbeddingConfig struct {
	Provider   ProviderType `yaml:"provider" koanf:"provider"`
	Model      string       `yaml:"model" koanf:"model"`
	Dimensions int          `yaml:"dimensions" koanf:"dimensions"`
	Host       string       `yaml:"host,omitempty" koanf:"host"`
}

// RewriteConfig controls optional LLM rephrasing of the product intro.
type RewriteConfig struct {
	Enabled  bool         `yaml:"enabled" koanf:"enabled"`
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`
	Host     string       `yaml:"host,omitempty" koanf:"host"`
	RPM      int          `yaml:"rpm" koanf:"rpm"`
}

type MatcherConfig struct {
	Threshold float64 `yaml:"threshold" koanf:"threshold"`
}

// LineConfig holds the Messaging API channel credentials.
type LineConfig struct {
	ChannelSecret      string `yaml:"channel_secret,omitempty" koanf:"channel_secret"`
	ChannelAccessToken string `yaml:"channel_access_token,omitempty" koanf:"channel_access_token"`
	APIBaseURL         string `yaml:"api_base_url" koanf:"api_base_url"`
}

type CatalogConfig struct {
	UserAgent   string `yaml:"user_agent" koanf:"user_agent"`
	MaxProducts int    `yaml:"max_products" koanf:"max_products"`
}

type SessionConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
}

// TimeoutsConfig bounds every call to an external collaborator.
type TimeoutsConfig struct {
	Embedding time.Duration `yaml:"embedding" koanf:"embedding"`
	Catalog   time.Duration `yaml:"catalog" koanf:"catalog"`
	Session   time.Duration `yaml:"session" koanf:"session"`
	Rewrite   time.Duration `yaml:"rewrite" koanf:"rewrite"`
	Reply     time.Duration `yaml:"reply" koanf:"reply"`
}

type LogConfig struct {
	File       string `yaml:"file" koanf:"file"`
	Production bool   `yaml:"production" koanf:"production"`
}
