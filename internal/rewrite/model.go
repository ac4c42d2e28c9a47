package rewrite

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/time/rate"
)

// DefaultOllamaHost is used when no host is configured.
const DefaultOllamaHost = "http://localhost:11434"

// Prompt is one rephrase request: the fixed instruction and the text to
// rephrase.
type Prompt struct {
	System      string
	Text        string
	MaxTokens   int
	Temperature float64
}

// Model generates a single short reply for a Prompt.
type Model interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// ModelOptions selects and configures a Model.
type ModelOptions struct {
	Provider string // "ollama" (default) or "openai"
	Model    string
	Host     string // Ollama host or OpenAI-compatible base URL
	APIKey   string // falls back to OPENAI_API_KEY
	RPM      int    // requests per minute; 0 disables limiting
}

// NewModel creates a model from opts, rate limited when opts.RPM is set.
func NewModel(opts ModelOptions) (Model, error) {
	var m Model
	switch opts.Provider {
	case "openai":
		apiKey := opts.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		m = NewOpenAIModel(apiKey, opts.Model, opts.Host)
	case "ollama", "":
		host := opts.Host
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = DefaultOllamaHost
		}
		m = NewOllamaModel(host, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported rewrite provider: %s", opts.Provider)
	}

	if opts.RPM > 0 {
		m = Limit(m, opts.RPM)
	}
	return m, nil
}

// limitedModel waits for a token before each call. A caller whose
// context expires while waiting gets the context error.
type limitedModel struct {
	Model
	limiter *rate.Limiter
}

// Limit wraps m so it is called at most rpm times per minute, with a
// burst of one.
func Limit(m Model, rpm int) Model {
	return &limitedModel{
		Model:   m,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60), 1),
	}
}

func (l *limitedModel) Generate(ctx context.Context, p Prompt) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return l.Model.Generate(ctx, p)
}
