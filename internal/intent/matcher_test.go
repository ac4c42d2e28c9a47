package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopassist/shopassist/internal/db"
)

func TestNewMatcherRequiresIndex(t *testing.T) {
	if _, err := NewMatcher(nil, nil, MatcherOptions{}); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestMatcherThresholdBoundary(t *testing.T) {
	tests := []struct {
		distance  float64
		confident bool
	}{
		{0, true},
		{0.199999, true},
		{0.2, false},
		{0.35, false},
	}

	for _, tt := range tests {
		s := fixedSearcher{res: MatchResult{Distance: tt.distance, Phrase: Phrase{Text: "hello", Reply: "Hi there"}}}
		m, err := NewMatcher(s, nil, MatcherOptions{})
		if err != nil {
			t.Fatalf("NewMatcher: %v", err)
		}

		res := m.Resolve(context.Background(), "hello")
		if res.Confident != tt.confident {
			t.Errorf("distance %v: confident = %v, want %v", tt.distance, res.Confident, tt.confident)
		}
		wantReply := FallbackReply
		if tt.confident {
			wantReply = "Hi there"
		}
		if res.Reply != wantReply {
			t.Errorf("distance %v: reply = %q, want %q", tt.distance, res.Reply, wantReply)
		}
	}
}

func TestMatcherCustomThreshold(t *testing.T) {
	s := fixedSearcher{res: MatchResult{Distance: 0.3, Phrase: Phrase{Text: "hi", Reply: "Hi"}}}
	m, _ := NewMatcher(s, nil, MatcherOptions{Threshold: 0.5})
	if m.Threshold() != 0.5 {
		t.Errorf("Threshold() = %v", m.Threshold())
	}
	if !m.Resolve(context.Background(), "hi").Confident {
		t.Error("expected confident match under custom threshold")
	}
}

func TestMatcherUnavailableFallsBack(t *testing.T) {
	s := fixedSearcher{err: errors.New("embedding service offline")}
	m, _ := NewMatcher(s, nil, MatcherOptions{})

	res := m.Resolve(context.Background(), "hello")
	if res.Confident {
		t.Error("unavailable match must not be confident")
	}
	if !res.Unavailable {
		t.Error("expected Unavailable")
	}
	if res.Reply != FallbackReply {
		t.Errorf("reply = %q, want fallback", res.Reply)
	}
	if res.Match.Available() {
		t.Error("match result should carry the error")
	}
}

type blockingSearcher struct{}

func (blockingSearcher) Nearest(ctx context.Context, _ string) (MatchResult, error) {
	<-ctx.Done()
	return MatchResult{}, ctx.Err()
}

func TestMatcherTimeout(t *testing.T) {
	m, _ := NewMatcher(blockingSearcher{}, nil, MatcherOptions{Timeout: 20 * time.Millisecond})

	start := time.Now()
	res := m.Resolve(context.Background(), "hello")
	if time.Since(start) > 2*time.Second {
		t.Fatal("Resolve did not honour the timeout")
	}
	if res.Confident || !res.Unavailable {
		t.Errorf("expected unavailable fallback, got %+v", res)
	}
}

func TestMatcherUsesReplyStore(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := NewStore(database)
	ctx := context.Background()

	if err := store.Upsert(ctx, Phrase{Text: "hello", Reply: "from the store"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	s := fixedSearcher{res: MatchResult{Distance: 0.01, Phrase: Phrase{Text: "hello", Reply: "from the index"}}}
	m, _ := NewMatcher(s, store, MatcherOptions{})
	if got := m.Resolve(ctx, "hello").Reply; got != "from the store" {
		t.Errorf("reply = %q, want the stored reply", got)
	}

	s = fixedSearcher{res: MatchResult{Distance: 0.01, Phrase: Phrase{Text: "unknown"}}}
	m, _ = NewMatcher(s, store, MatcherOptions{})
	res := m.Resolve(ctx, "unknown")
	if res.Confident || res.Reply != FallbackReply {
		t.Errorf("missing reply should fall back, got %+v", res)
	}
	if res.Unavailable {
		t.Error("a missing phrase is not an upstream failure")
	}
}

func TestMatcherWithRealIndex(t *testing.T) {
	ctx := context.Background()
	ix, err := NewIndex(ctx, &bagEmbedder{dims: 64}, greetings, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	m, _ := NewMatcher(ix, nil, MatcherOptions{})

	res := m.Resolve(ctx, "good morning")
	if !res.Confident || res.Reply != "Good morning!" {
		t.Errorf("exact phrase should match confidently, got %+v", res)
	}
}
