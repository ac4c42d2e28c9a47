package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Embedding.Provider != ProviderOllama {
		t.Errorf("expected default embedding provider %q, got %q", ProviderOllama, cfg.Embedding.Provider)
	}
	if cfg.Matcher.Threshold != 0.2 {
		t.Errorf("expected default threshold 0.2, got %v", cfg.Matcher.Threshold)
	}
	if cfg.Catalog.MaxProducts != 12 {
		t.Errorf("expected default max_products 12, got %d", cfg.Catalog.MaxProducts)
	}
	if cfg.Rewrite.Enabled {
		t.Error("rewrite should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopassist.yml")

	original := DefaultConfig()
	original.Embedding.Provider = ProviderOpenAI
	original.Embedding.Model = "text-embedding-3-large"
	original.Matcher.Threshold = 0.15
	original.Server.Port = 9090
	original.Timeouts.Catalog = 42 * time.Second

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Embedding.Provider != ProviderOpenAI {
		t.Errorf("embedding.provider: got %q", loaded.Embedding.Provider)
	}
	if loaded.Embedding.Model != "text-embedding-3-large" {
		t.Errorf("embedding.model: got %q", loaded.Embedding.Model)
	}
	if loaded.Matcher.Threshold != 0.15 {
		t.Errorf("matcher.threshold: got %v", loaded.Matcher.Threshold)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("server.port: got %d", loaded.Server.Port)
	}
	if loaded.Timeouts.Catalog != 42*time.Second {
		t.Errorf("timeouts.catalog: got %v", loaded.Timeouts.Catalog)
	}
	if loaded.Timeouts.Session != original.Timeouts.Session {
		t.Errorf("timeouts.session: got %v", loaded.Timeouts.Session)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Server.Port != DefaultConfig().Server.Port {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopassist.yml")
	content := "matcher:\n  threshold: 0.3\ntimeouts:\n  reply: 3s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Matcher.Threshold != 0.3 {
		t.Errorf("threshold = %v", cfg.Matcher.Threshold)
	}
	if cfg.Timeouts.Reply != 3*time.Second {
		t.Errorf("timeouts.reply = %v", cfg.Timeouts.Reply)
	}
	if cfg.Embedding.Model != "bge-m3" {
		t.Errorf("embedding.model = %q, want default", cfg.Embedding.Model)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHOPASSIST_SERVER__PORT", "7070")
	t.Setenv("SHOPASSIST_LINE__CHANNEL_SECRET", "from-env")
	t.Setenv("SHOPASSIST_REWRITE__ENABLED", "true")
	t.Setenv("SHOPASSIST_DATA_DIR", "/var/lib/shopassist")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d", cfg.Server.Port)
	}
	if cfg.Line.ChannelSecret != "from-env" {
		t.Errorf("line.channel_secret = %q", cfg.Line.ChannelSecret)
	}
	if !cfg.Rewrite.Enabled {
		t.Error("rewrite.enabled not overridden")
	}
	if cfg.DataDir != "/var/lib/shopassist" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
}

func TestLineEnvFallback(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token-from-line-env")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Line.ChannelAccessToken != "token-from-line-env" {
		t.Errorf("channel_access_token = %q", cfg.Line.ChannelAccessToken)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SHOPASSIST_SERVER__PORT":        "server.port",
		"SHOPASSIST_DATA_DIR":            "data_dir",
		"SHOPASSIST_TIMEOUTS__EMBEDDING": "timeouts.embedding",
		"SHOPASSIST_LINE__API_BASE_URL":  "line.api_base_url",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad provider", func(c *Config) { c.Embedding.Provider = "google" }, "embedding.provider"},
		{"no model", func(c *Config) { c.Embedding.Model = "" }, "embedding.model"},
		{"zero threshold", func(c *Config) { c.Matcher.Threshold = 0 }, "threshold"},
		{"huge threshold", func(c *Config) { c.Matcher.Threshold = 5 }, "threshold"},
		{"negative timeout", func(c *Config) { c.Timeouts.Catalog = -time.Second }, "timeouts"},
		{"rewrite without model", func(c *Config) { c.Rewrite.Enabled = true; c.Rewrite.Model = "" }, "rewrite.model"},
		{"disabled rewrite ignores provider", func(c *Config) { c.Rewrite.Provider = "bogus" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServerNeedsToken(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected error without channel access token")
	}
	cfg.Line.ChannelAccessToken = "t"
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetEmbeddingPresetFallback(t *testing.T) {
	if p := GetEmbeddingPreset("unknown"); p.Model != "bge-m3" {
		t.Errorf("fallback preset = %+v", p)
	}
	if m := GetRewriteModel(ProviderOpenAI); m != "gpt-4o-mini" {
		t.Errorf("openai rewrite model = %q", m)
	}
}

func TestDBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	if got := cfg.DBPath(); got != filepath.Join("/data", "shopassist.db") {
		t.Errorf("DBPath = %q", got)
	}
}
