package config

import "time"

// EmbeddingPreset is the default model for an embedding provider.
type EmbeddingPreset struct {
	Model      string
	Dimensions int
}

// bge-m3 is multilingual and handles Thai greetings well.
var embeddingPresets = map[ProviderType]EmbeddingPreset{
	ProviderOllama: {Model: "bge-m3", Dimensions: 1024},
	ProviderOpenAI: {Model: "text-embedding-3-small", Dimensions: 1536},
}

var rewriteModels = map[ProviderType]string{
	ProviderOllama: "supachai/llama-3-typhoon-v1.5",
	ProviderOpenAI: "gpt-4o-mini",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:      ServerConfig{Port: 8080},
		DataDir:     ".shopassist",
		IntentsFile: "intents.yml",
		Embedding: EmbeddingConfig{
			Provider:   ProviderOllama,
			Model:      embeddingPresets[ProviderOllama].Model,
			Dimensions: embeddingPresets[ProviderOllama].Dimensions,
		},
		Rewrite: RewriteConfig{
			Enabled:  false,
			Provider: ProviderOllama,
			Model:    rewriteModels[ProviderOllama],
			RPM:      60,
		},
		Matcher: MatcherConfig{Threshold: 0.2},
		Line:    LineConfig{APIBaseURL: "https://api.line.me"},
		Catalog: CatalogConfig{
			UserAgent:   "shopassist/1.0 (+https://github.com/shopassist/shopassist)",
			MaxProducts: 12,
		},
		Session: SessionConfig{CacheTTL: 30 * time.Minute},
		Timeouts: TimeoutsConfig{
			Embedding: 10 * time.Second,
			Catalog:   15 * time.Second,
			Session:   5 * time.Second,
			Rewrite:   8 * time.Second,
			Reply:     10 * time.Second,
		},
		Log: LogConfig{File: "logs/shopassist.log"},
	}
}

// GetEmbeddingPreset returns the default embedding model for provider,
// falling back to the Ollama preset.
func GetEmbeddingPreset(provider ProviderType) EmbeddingPreset {
	if p, ok := embeddingPresets[provider]; ok {
		return p
	}
	return embeddingPresets[ProviderOllama]
}

// GetRewriteModel returns the default rewrite model for provider.
func GetRewriteModel(provider ProviderType) string {
	if m, ok := rewriteModels[provider]; ok {
		return m
	}
	return rewriteModels[ProviderOllama]
}
