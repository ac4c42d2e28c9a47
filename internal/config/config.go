package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override. Nested keys use a
// double underscore: SHOPASSIST_LINE__CHANNEL_SECRET -> line.channel_secret.
const EnvPrefix = "SHOPASSIST_"

// Load reads configuration from the given YAML file, then overlays a
// .env file in the working directory and SHOPASSIST_* environment
// variables, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// The LINE SDK conventions are honoured when nothing else is set.
	if cfg.Line.ChannelSecret == "" {
		cfg.Line.ChannelSecret = os.Getenv("LINE_CHANNEL_SECRET")
	}
	if cfg.Line.ChannelAccessToken == "" {
		cfg.Line.ChannelAccessToken = os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// DBPath is the SQLite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "shopassist.db")
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOllama: true,
	ProviderOpenAI: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if !validProviders[c.Embedding.Provider] {
		return fmt.Errorf("invalid embedding.provider %q: must be one of ollama, openai", c.Embedding.Provider)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must be non-negative")
	}

	if c.Rewrite.Enabled {
		if !validProviders[c.Rewrite.Provider] {
			return fmt.Errorf("invalid rewrite.provider %q: must be one of ollama, openai", c.Rewrite.Provider)
		}
		if c.Rewrite.Model == "" {
			return fmt.Errorf("rewrite.model is required when rewrite is enabled")
		}
	}
	if c.Rewrite.RPM < 0 {
		return fmt.Errorf("rewrite.rpm must be non-negative")
	}

	// Squared distances between unit vectors lie in [0, 4].
	if c.Matcher.Threshold <= 0 || c.Matcher.Threshold > 4 {
		return fmt.Errorf("matcher.threshold %v must be in (0, 4]", c.Matcher.Threshold)
	}

	if c.Catalog.MaxProducts < 0 {
		return fmt.Errorf("catalog.max_products must be non-negative")
	}

	t := c.Timeouts
	if t.Embedding < 0 || t.Catalog < 0 || t.Session < 0 || t.Rewrite < 0 || t.Reply < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	return nil
}

// ValidateServer checks the settings that only the webhook server needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Line.ChannelAccessToken == "" {
		return fmt.Errorf("line.channel_access_token is required (set %sLINE__CHANNEL_ACCESS_TOKEN)", EnvPrefix)
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}
