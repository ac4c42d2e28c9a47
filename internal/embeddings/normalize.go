package embeddings

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrZeroVector is returned when an embedding has no direction and
// therefore cannot be normalized.
var ErrZeroVector = errors.New("embedding is a zero vector")

// Normalize returns a unit-length copy of vec.
func Normalize(vec []float32) ([]float32, error) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return nil, ErrZeroVector
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out, nil
}

// NormalizedEmbedder guarantees that every vector it returns has unit length.
type NormalizedEmbedder struct {
	inner Embedder
}

// Normalized wraps e so its output is L2-normalized. Wrapping an already
// normalized embedder is a no-op.
func Normalized(e Embedder) Embedder {
	if n, ok := e.(*NormalizedEmbedder); ok {
		return n
	}
	return &NormalizedEmbedder{inner: e}
}

func (n *NormalizedEmbedder) Name() string    { return n.inner.Name() }
func (n *NormalizedEmbedder) Dimensions() int { return n.inner.Dimensions() }

func (n *NormalizedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	raw, err := n.inner.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("%s returned %d embeddings for %d texts", n.inner.Name(), len(raw), len(texts))
	}

	out := make([][]float32, len(raw))
	for i, vec := range raw {
		unit, err := Normalize(vec)
		if err != nil {
			return nil, fmt.Errorf("normalize embedding %d: %w", i, err)
		}
		out[i] = unit
	}
	return out, nil
}
