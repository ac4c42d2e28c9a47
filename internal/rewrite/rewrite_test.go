package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubModel struct {
	content string
	err     error
	delay   time.Duration
	calls   int
	last    Prompt
}

func (s *stubModel) Name() string { return "stub" }

func (s *stubModel) Generate(ctx context.Context, p Prompt) (string, error) {
	s.calls++
	s.last = p
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.content, nil
}

const intro = "Here are the products based on your search:"

func TestRewrite(t *testing.T) {
	p := &stubModel{content: ` "Check out these sneakers!" `}
	r := New(p, time.Second, nil)
	if got := r.Rewrite(context.Background(), intro); got != "Check out these sneakers!" {
		t.Errorf("Rewrite = %q", got)
	}
	if p.last.Text != intro || p.last.System != systemPrompt || p.last.MaxTokens == 0 {
		t.Errorf("prompt = %+v", p.last)
	}
}

func TestRewriteFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		model    *stubModel
		timeout  time.Duration
	}{
		{"error", &stubModel{err: errors.New("connection refused")}, time.Second},
		{"empty", &stubModel{content: "   "}, time.Second},
		{"too long", &stubModel{content: strings.Repeat("x", maxLen+1)}, time.Second},
		{"timeout", &stubModel{content: "late", delay: time.Second}, 20 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.model, tt.timeout, nil)
			if got := r.Rewrite(context.Background(), intro); got != intro {
				t.Errorf("Rewrite = %q, want static text", got)
			}
		})
	}
}

func TestRewriteDisabled(t *testing.T) {
	r := New(nil, 0, nil)
	if r.Enabled() {
		t.Error("nil model should disable rewriting")
	}
	if got := r.Rewrite(context.Background(), intro); got != intro {
		t.Errorf("Rewrite = %q", got)
	}

	var nilRewriter *Rewriter
	if got := nilRewriter.Rewrite(context.Background(), intro); got != intro {
		t.Errorf("nil Rewriter = %q", got)
	}
}

func TestRewriteSkipsBlankInput(t *testing.T) {
	p := &stubModel{content: "x"}
	New(p, time.Second, nil).Rewrite(context.Background(), " ")
	if p.calls != 0 {
		t.Errorf("model called %d times for blank input", p.calls)
	}
}
