package intent

import (
	"context"
	"errors"
	"math"
	"testing"
)

var greetings = []Phrase{
	{Text: "hello", Reply: "Hello! Looking for shoes?"},
	{Text: "good morning", Reply: "Good morning!"},
	{Text: "สวัสดี", Reply: "สวัสดีครับ"},
	{Text: "thanks a bunch", Reply: "You're welcome"},
}

func TestNewIndexEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	e := &bagEmbedder{dims: 32}

	if _, err := NewIndex(ctx, e, nil, nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("nil corpus: expected ErrEmptyCorpus, got %v", err)
	}
	if _, err := NewIndex(ctx, e, []Phrase{{Text: "  "}}, nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("blank corpus: expected ErrEmptyCorpus, got %v", err)
	}
}

func TestDedupe(t *testing.T) {
	in := []Phrase{
		{Text: "hi", Reply: "first"},
		{Text: " hi ", Reply: "second"},
		{Text: ""},
		{Text: "hey", Reply: "third"},
	}
	got := Dedupe(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 phrases, got %d: %v", len(got), got)
	}
	if got[0].Reply != "first" || got[1].Text != "hey" {
		t.Errorf("unexpected dedupe result %v", got)
	}
}

func TestNewIndexEmbedsEachDistinctPhraseOnce(t *testing.T) {
	e := &bagEmbedder{dims: 32}
	corpus := append(append([]Phrase{}, greetings...), greetings[0], greetings[2])

	var lastDone, lastTotal int
	ix, err := NewIndex(context.Background(), e, corpus, func(done, total int) {
		lastDone, lastTotal = done, total
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if ix.Len() != len(greetings) {
		t.Errorf("Len() = %d, want %d", ix.Len(), len(greetings))
	}
	if e.calls() != len(greetings) {
		t.Errorf("embedded %d texts, want %d", e.calls(), len(greetings))
	}
	if lastDone != len(greetings) || lastTotal != len(greetings) {
		t.Errorf("final progress = %d/%d", lastDone, lastTotal)
	}
}

func TestNearestSelfMatch(t *testing.T) {
	ctx := context.Background()
	ix, err := NewIndex(ctx, &bagEmbedder{dims: 64}, greetings, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	for _, p := range greetings {
		res, err := ix.Nearest(ctx, p.Text)
		if err != nil {
			t.Fatalf("Nearest(%q): %v", p.Text, err)
		}
		if res.Phrase.Text != p.Text {
			t.Errorf("Nearest(%q) returned %q", p.Text, res.Phrase.Text)
		}
		if res.Distance > 1e-5 {
			t.Errorf("Nearest(%q) distance = %g, want ~0", p.Text, res.Distance)
		}
	}
}

func TestNearestTieBreaksByCorpusOrder(t *testing.T) {
	ctx := context.Background()
	emb := tableEmbedder{
		"a": unit2(0),
		"b": unit2(0),
		"q": unit2(0.3),
	}

	ix, err := NewIndex(ctx, emb, []Phrase{{Text: "a"}, {Text: "b"}}, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	res, err := ix.Nearest(ctx, "q")
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if res.Phrase.Text != "a" || res.Ordinal != 0 {
		t.Errorf("tie resolved to %q (ordinal %d), want a", res.Phrase.Text, res.Ordinal)
	}

	ix, err = NewIndex(ctx, emb, []Phrase{{Text: "b"}, {Text: "a"}}, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	res, err = ix.Nearest(ctx, "q")
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if res.Phrase.Text != "b" {
		t.Errorf("tie resolved to %q, want b", res.Phrase.Text)
	}
}

func TestDistanceConsistentWithCosine(t *testing.T) {
	ctx := context.Background()
	angles := map[string]float64{"p0": 0, "p1": 0.5, "p2": 1.0, "p3": 2.0}
	emb := tableEmbedder{"q": unit2(0.1)}
	var corpus []Phrase
	for _, name := range []string{"p2", "p0", "p3", "p1"} {
		emb[name] = unit2(angles[name])
		corpus = append(corpus, Phrase{Text: name})
	}

	ix, err := NewIndex(ctx, emb, corpus, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	res, err := ix.Nearest(ctx, "q")
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if res.Phrase.Text != "p0" {
		t.Errorf("nearest = %q, want p0", res.Phrase.Text)
	}

	if want := 2 - 2*math.Cos(0.1); math.Abs(res.Distance-want) > 1e-5 {
		t.Errorf("nearest distance = %g, want 2-2cos = %g", res.Distance, want)
	}

	ranked, err := ix.Rank(ctx, "q")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranked) != len(corpus) {
		t.Fatalf("Rank returned %d results, want %d", len(ranked), len(corpus))
	}
	for i, r := range ranked {
		want := 2 - 2*math.Cos(angles[r.Phrase.Text]-0.1)
		if math.Abs(r.Distance-want) > 1e-5 {
			t.Errorf("%s: distance %g, want 2-2cos = %g", r.Phrase.Text, r.Distance, want)
		}
		if i == 0 {
			continue
		}
		prev := ranked[i-1]
		if prev.Distance > r.Distance {
			t.Errorf("rank %d (%s, %g) after a farther phrase (%s, %g)", i, r.Phrase.Text, r.Distance, prev.Phrase.Text, prev.Distance)
		}
		if math.Cos(angles[r.Phrase.Text]-0.1) > math.Cos(angles[prev.Phrase.Text]-0.1) {
			t.Errorf("%s is cosine-closer than %s but ranked below it", r.Phrase.Text, prev.Phrase.Text)
		}
	}
}

func TestRankUsesCollectionEmbedder(t *testing.T) {
	ctx := context.Background()
	e := &bagEmbedder{dims: 32}
	ix, err := NewIndex(ctx, e, greetings, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	before := e.calls()
	if _, err := ix.Nearest(ctx, "hello there"); err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if got := e.calls() - before; got != 1 {
		t.Errorf("query embedded %d texts, want 1", got)
	}
}

func TestNearestEmbeddingFailure(t *testing.T) {
	ctx := context.Background()
	e := &bagEmbedder{dims: 32}
	ix, err := NewIndex(ctx, e, greetings, nil)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	e.setFail(true)
	if _, err := ix.Nearest(ctx, "hello"); err == nil {
		t.Fatal("expected error when the embedder fails")
	}
}

func TestNewIndexEmbeddingFailure(t *testing.T) {
	e := &bagEmbedder{dims: 32, fail: true}
	if _, err := NewIndex(context.Background(), e, greetings, nil); err == nil {
		t.Fatal("expected error when the embedder fails during build")
	}
}
