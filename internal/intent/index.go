package intent

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/shopassist/shopassist/internal/embeddings"
)

const (
	collectionName = "intents"
	embedBatchSize = 32
)

// ProgressFunc is called after each embedding batch during index build.
type ProgressFunc func(done, total int)

// Index holds unit embeddings of every corpus phrase and answers
// nearest-neighbour queries. It is never mutated after NewIndex returns,
// so one Index may serve concurrent requests without locking.
type Index struct {
	collection *chromem.Collection
	phrases    []Phrase
}

// Dedupe drops empty and repeated phrase texts, keeping the first
// occurrence and the original order.
func Dedupe(phrases []Phrase) []Phrase {
	seen := make(map[string]bool, len(phrases))
	out := make([]Phrase, 0, len(phrases))
	for _, p := range phrases {
		p.Text = strings.TrimSpace(p.Text)
		if p.Text == "" || seen[p.Text] {
			continue
		}
		seen[p.Text] = true
		out = append(out, p)
	}
	return out
}

// NewIndex embeds the deduplicated corpus once and loads it into an
// in-memory chromem collection. Queries are embedded by the collection
// through the same normalized embedder.
func NewIndex(ctx context.Context, embedder embeddings.Embedder, phrases []Phrase, progress ProgressFunc) (*Index, error) {
	corpus := Dedupe(phrases)
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	e := embeddings.Normalized(embedder)

	vectors := make([][]float32, 0, len(corpus))
	for start := 0; start < len(corpus); start += embedBatchSize {
		end := min(start+embedBatchSize, len(corpus))
		texts := make([]string, 0, end-start)
		for _, p := range corpus[start:end] {
			texts = append(texts, p.Text)
		}
		batch, err := e.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding corpus: %w", err)
		}
		vectors = append(vectors, batch...)
		if progress != nil {
			progress(len(vectors), len(corpus))
		}
	}

	if len(vectors) != len(corpus) {
		return nil, fmt.Errorf("embedding corpus: got %d vectors for %d phrases", len(vectors), len(corpus))
	}
	dims := len(vectors[0])
	docs := make([]chromem.Document, len(corpus))
	for i, p := range corpus {
		if len(vectors[i]) != dims {
			return nil, fmt.Errorf("phrase %q: embedding has %d dimensions, expected %d", p.Text, len(vectors[i]), dims)
		}
		docs[i] = chromem.Document{
			ID:        docID(i),
			Content:   p.Text,
			Embedding: vectors[i],
			Metadata:  map[string]string{"ordinal": strconv.Itoa(i)},
		}
	}

	db := chromem.NewDB()
	col, err := db.CreateCollection(collectionName, nil, embeddings.ToChromemFunc(e))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("add corpus documents: %w", err)
	}

	return &Index{
		collection: col,
		phrases:    corpus,
	}, nil
}

// Len returns the number of indexed phrases.
func (ix *Index) Len() int { return len(ix.phrases) }

// Nearest returns the corpus phrase closest to query.
func (ix *Index) Nearest(ctx context.Context, query string) (MatchResult, error) {
	ranked, err := ix.Rank(ctx, query)
	if err != nil {
		return MatchResult{}, err
	}
	return ranked[0], nil
}

// Rank returns every corpus phrase ordered by distance to query.
//
// Distance is the squared Euclidean distance between unit vectors, which
// equals 2 - 2*cos(a, b) and is derived from chromem's cosine similarity.
// It is a monotonic transform of that similarity, so the ranking matches a
// cosine ranking; the reported value is not a cosine score. Equal
// distances resolve to the phrase that appeared first in the corpus.
func (ix *Index) Rank(ctx context.Context, query string) ([]MatchResult, error) {
	// The whole corpus is requested so ties can be broken by ordinal
	// rather than by chromem's internal ordering.
	results, err := ix.collection.Query(ctx, query, ix.collection.Count(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyCorpus
	}

	ranked := make([]MatchResult, 0, len(results))
	for _, r := range results {
		ord, err := strconv.Atoi(r.Metadata["ordinal"])
		if err != nil || ord < 0 || ord >= len(ix.phrases) {
			return nil, fmt.Errorf("document %s has invalid ordinal %q", r.ID, r.Metadata["ordinal"])
		}
		ranked = append(ranked, MatchResult{
			Distance: distanceFromSimilarity(r.Similarity),
			Phrase:   ix.phrases[ord],
			Ordinal:  ord,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Distance != ranked[j].Distance {
			return ranked[i].Distance < ranked[j].Distance
		}
		return ranked[i].Ordinal < ranked[j].Ordinal
	})
	return ranked, nil
}

// distanceFromSimilarity converts the cosine similarity of two unit
// vectors into their squared Euclidean distance.
func distanceFromSimilarity(sim float32) float64 {
	return max(0, 2-2*float64(sim))
}

func docID(ordinal int) string {
	return fmt.Sprintf("intent-%06d", ordinal)
}
