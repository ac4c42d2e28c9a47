// Package rewrite varies the phrasing of fixed bot replies with an LLM.
package rewrite

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist/shopassist/internal/logger"
)

const systemPrompt = "You write short, friendly replies for a Thai sneaker shop chat. " +
	"Rephrase the message the user gives you in one sentence. Reply with the sentence only."

// maxLen bounds accepted output; longer answers are treated as a failure.
const maxLen = 300

// Rewriter rephrases reply text. A nil model, a timeout or any model
// failure returns the input unchanged.
type Rewriter struct {
	model   Model
	timeout time.Duration
	log     *zap.Logger
}

// New creates a Rewriter. model may be nil to disable rewriting.
func New(model Model, timeout time.Duration, log *zap.Logger) *Rewriter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Rewriter{
		model:   model,
		timeout: timeout,
		log:     logger.OrNop(log).Named("rewrite"),
	}
}

// Enabled reports whether a model is configured.
func (r *Rewriter) Enabled() bool { return r != nil && r.model != nil }

// Rewrite returns a rephrased text, or text itself when rewriting is
// unavailable.
func (r *Rewriter) Rewrite(ctx context.Context, text string) string {
	if !r.Enabled() || strings.TrimSpace(text) == "" {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.model.Generate(ctx, Prompt{
		System:      systemPrompt,
		Text:        text,
		MaxTokens:   128,
		Temperature: 0.7,
	})
	if err != nil {
		r.log.Warn("rewrite failed, using static text", zap.String("model", r.model.Name()), zap.Error(err))
		return text
	}

	out := clean(resp)
	if out == "" || len(out) > maxLen {
		r.log.Debug("rewrite output rejected", zap.Int("len", len(out)))
		return text
	}
	return out
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'")
	return strings.TrimSpace(s)
}
