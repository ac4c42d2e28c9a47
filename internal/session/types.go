package session

import (
	"context"
	"errors"
	"time"

	"github.com/shopassist/shopassist/internal/dialogue"
)

// ErrNotFound is returned for unknown users and turns.
var ErrNotFound = errors.New("session not found")

// Session is the durable per-user state carried between webhook calls.
type Session struct {
	UserID      string         `json:"user_id"`
	LastKeyword string         `json:"last_keyword,omitempty"`
	State       dialogue.State `json:"dialogue_state"`
	PendingURL  string         `json:"pending_url,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Position returns the dialogue position stored in the session.
func (s Session) Position() dialogue.Position {
	return dialogue.Position{State: s.State, PendingURL: s.PendingURL}
}

// Turn is one message/reply exchange. Turns are append-only.
type Turn struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	UserMessage string         `json:"user_message"`
	BotResponse string         `json:"bot_response"`
	LastKeyword string         `json:"last_keyword,omitempty"`
	ScrapedText string         `json:"scraped_text,omitempty"`
	StateBefore dialogue.State `json:"state_before"`
	StateAfter  dialogue.State `json:"state_after"`
	// PendingURL is stored on the user row, not on the turn.
	PendingURL string `json:"-"`
	// LogOnly appends the turn without updating the user's stored
	// position. Its states are recorded as unknown.
	LogOnly   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnFilter controls which turns are returned by Turns.
type TurnFilter struct {
	UserID string
	Since  *time.Time
	Limit  int
	Offset int
}

// Backend is what the webhook processor needs from session storage.
type Backend interface {
	Load(ctx context.Context, userID string) (Session, error)
	RecordTurn(ctx context.Context, turn Turn) error
}
