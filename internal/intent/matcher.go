package intent

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shopassist/shopassist/internal/logger"
)

// Searcher finds the nearest known phrase for a query.
type Searcher interface {
	Nearest(ctx context.Context, query string) (MatchResult, error)
}

// ReplyLookup maps a matched phrase to its canned reply.
type ReplyLookup interface {
	Reply(ctx context.Context, phrase string) (string, error)
}

// MatcherOptions tunes a Matcher.
type MatcherOptions struct {
	Threshold float64       // 0 means DefaultThreshold
	Timeout   time.Duration // bound for one embedding + lookup; 0 means none
	Logger    *zap.Logger
}

// Matcher applies the confidence threshold on top of a Searcher.
type Matcher struct {
	index     Searcher
	replies   ReplyLookup
	threshold float64
	timeout   time.Duration
	log       *zap.Logger
}

// NewMatcher creates a Matcher. A nil index is a configuration error.
// When replies is nil the reply stored with the indexed phrase is used.
func NewMatcher(index Searcher, replies ReplyLookup, opts MatcherOptions) (*Matcher, error) {
	if index == nil {
		return nil, ErrEmptyCorpus
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		index:     index,
		replies:   replies,
		threshold: threshold,
		timeout:   opts.Timeout,
		log:       logger.OrNop(opts.Logger).Named("intent"),
	}, nil
}

// Threshold returns the configured confidence threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Match returns the nearest phrase. Failures are reported in the
// result's Err field and never panic or abort the caller.
func (m *Matcher) Match(ctx context.Context, text string) MatchResult {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.index.Nearest(ctx, text)
	if err != nil {
		m.log.Warn("match unavailable", zap.Error(err))
		return MatchResult{Err: err}
	}
	return res
}

// Confident reports whether r is strictly below the threshold.
func (m *Matcher) Confident(r MatchResult) bool {
	return r.Available() && r.Distance < m.threshold
}

// Resolve matches text and picks the reply: the phrase's canned reply
// for confident matches, FallbackReply otherwise.
func (m *Matcher) Resolve(ctx context.Context, text string) Resolution {
	match := m.Match(ctx, text)
	res := Resolution{Match: match, Reply: FallbackReply, Unavailable: !match.Available()}

	if !m.Confident(match) {
		m.log.Debug("no confident match",
			zap.Float64("distance", match.Distance),
			zap.String("nearest", match.Phrase.Text),
			zap.Bool("unavailable", res.Unavailable))
		return res
	}

	reply, err := m.lookup(ctx, match.Phrase)
	if err != nil {
		m.log.Warn("reply lookup failed", zap.String("phrase", match.Phrase.Text), zap.Error(err))
		res.Unavailable = !errors.Is(err, ErrNotFound)
		return res
	}

	res.Confident = true
	res.Reply = reply
	return res
}

func (m *Matcher) lookup(ctx context.Context, p Phrase) (string, error) {
	if m.replies == nil {
		if p.Reply == "" {
			return "", ErrNotFound
		}
		return p.Reply, nil
	}
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()
	return m.replies.Reply(ctx, p.Text)
}

func (m *Matcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}
