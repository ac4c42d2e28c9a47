package intent

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sync"
)

// bagEmbedder hashes words into buckets, so texts sharing words get
// similar vectors and identical texts get identical vectors.
type bagEmbedder struct {
	dims int
	mu   sync.Mutex
	fail bool
	n    int
}

func (b *bagEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return nil, errors.New("embedding service offline")
	}
	b.n += len(texts)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, b.dims)
		for _, r := range text {
			h := fnv.New32a()
			h.Write([]byte(string(r)))
			vec[h.Sum32()%uint32(b.dims)]++
		}
		out[i] = vec
	}
	return out, nil
}

func (b *bagEmbedder) Dimensions() int { return b.dims }
func (b *bagEmbedder) Name() string    { return "bag" }

func (b *bagEmbedder) setFail(v bool) {
	b.mu.Lock()
	b.fail = v
	b.mu.Unlock()
}

func (b *bagEmbedder) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// tableEmbedder returns fixed vectors per text.
type tableEmbedder map[string][]float32

func (t tableEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := t[text]
		if !ok {
			return nil, errors.New("unknown text " + text)
		}
		out[i] = v
	}
	return out, nil
}

func (t tableEmbedder) Dimensions() int { return 2 }
func (t tableEmbedder) Name() string    { return "table" }

// unit2 returns the 2-d unit vector at the given angle in radians.
func unit2(angle float64) []float32 {
	return []float32{float32(math.Cos(angle)), float32(math.Sin(angle))}
}

// fixedSearcher returns a canned result.
type fixedSearcher struct {
	res MatchResult
	err error
}

func (f fixedSearcher) Nearest(context.Context, string) (MatchResult, error) {
	return f.res, f.err
}
