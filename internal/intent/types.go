package intent

import "errors"

// DefaultThreshold is the squared-L2 distance below which a match is
// considered confident. Tunable, not derived.
const DefaultThreshold = 0.2

// FallbackReply is sent when no phrase is close enough to the message.
const FallbackReply = "ขอโทษครับ ไม่สามารถประมวลผลได้ในขณะนี้"

var (
	// ErrEmptyCorpus is returned when an index is built without phrases.
	ErrEmptyCorpus = errors.New("intent corpus is empty")
	// ErrNotFound is returned by the store for unknown phrases.
	ErrNotFound = errors.New("intent phrase not found")
)

// Phrase is a known greeting/intent and its canned reply.
type Phrase struct {
	Text  string `json:"text" yaml:"phrase"`
	Reply string `json:"reply" yaml:"reply"`
}

// MatchResult is the nearest corpus phrase for a query.
// Err is set when the match could not be computed; callers treat that
// as a non-confident result.
type MatchResult struct {
	Distance float64
	Phrase   Phrase
	Ordinal  int
	Err      error
}

// Available reports whether the result holds a real match.
func (r MatchResult) Available() bool {
	return r.Err == nil
}

// Resolution is the matcher's decision for one message.
type Resolution struct {
	Match       MatchResult
	Confident   bool
	Reply       string
	Unavailable bool
}
