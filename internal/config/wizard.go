package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the
// result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to shopassist! Let's configure your LINE shop assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Embedding provider.
	embedPrompt := promptui.Select{
		Label: "Select embedding provider for intent matching",
		Items: []string{"ollama", "openai"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.Embedding.Provider = ProviderType(embedStr)
	preset := GetEmbeddingPreset(cfg.Embedding.Provider)
	cfg.Embedding.Model = preset.Model
	cfg.Embedding.Dimensions = preset.Dimensions

	// 2. Threshold.
	thresholdPrompt := promptui.Prompt{
		Label:   "Match threshold (squared distance, lower is stricter)",
		Default: strconv.FormatFloat(cfg.Matcher.Threshold, 'f', -1, 64),
		Validate: func(s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 || v > 4 {
				return fmt.Errorf("enter a number in (0, 4]")
			}
			return nil
		},
	}
	thresholdStr, err := thresholdPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}
	cfg.Matcher.Threshold, _ = strconv.ParseFloat(thresholdStr, 64)

	// 3. Reply rewriting.
	rewritePrompt := promptui.Select{
		Label: "Rephrase product intros with an LLM?",
		Items: []string{"no", "yes (ollama)", "yes (openai)"},
	}
	rewriteIdx, _, err := rewritePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("rewrite selection: %w", err)
	}
	switch rewriteIdx {
	case 1:
		cfg.Rewrite.Enabled = true
		cfg.Rewrite.Provider = ProviderOllama
	case 2:
		cfg.Rewrite.Enabled = true
		cfg.Rewrite.Provider = ProviderOpenAI
	}
	cfg.Rewrite.Model = GetRewriteModel(cfg.Rewrite.Provider)

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Webhook server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)

	// Secrets stay out of the YAML file.
	if os.Getenv(EnvPrefix+"LINE__CHANNEL_ACCESS_TOKEN") == "" && os.Getenv("LINE_CHANNEL_ACCESS_TOKEN") == "" {
		fmt.Printf("Note: put LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN in .env before running shopassist server.\n")
	}
	for _, p := range []ProviderType{cfg.Embedding.Provider, cfg.Rewrite.Provider} {
		if envVar := APIKeyEnvVar(p); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("Note: set %s in your environment.\n", envVar)
			break
		}
	}
	return cfg, nil
}
