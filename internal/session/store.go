package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopassist/shopassist/internal/db"
	"github.com/shopassist/shopassist/internal/dialogue"
)

// Fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store keeps sessions and the interaction log in SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// GetLastKeyword returns the user's last keyword. ok is false for
// unknown users and users without a keyword.
func (s *Store) GetLastKeyword(ctx context.Context, userID string) (string, bool, error) {
	var kw sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT last_keyword FROM users WHERE user_id = ?", userID).Scan(&kw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading last keyword: %w", err)
	}
	return kw.String, kw.Valid && kw.String != "", nil
}

// Get returns the stored session or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (Session, error) {
	var (
		sess    Session
		kw      sql.NullString
		state   string
		updated string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, last_keyword, dialogue_state, pending_url, updated_at
		FROM users WHERE user_id = ?`, userID).
		Scan(&sess.UserID, &kw, &state, &sess.PendingURL, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	sess.LastKeyword = kw.String
	sess.State = dialogue.ParseState(state)
	sess.UpdatedAt = parseTime(updated)
	return sess, nil
}

// Load returns the user's session, or a fresh initial session for
// users seen for the first time.
func (s *Store) Load(ctx context.Context, userID string) (Session, error) {
	sess, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Session{UserID: userID, State: dialogue.StateInitial}, nil
	}
	return sess, err
}

// RecordTurn upserts the user row and appends the turn in one
// transaction. Terminal states are stored as initial. A LogOnly turn
// only makes sure the user row exists.
func (s *Store) RecordTurn(ctx context.Context, turn Turn) error {
	if turn.UserID == "" {
		return errors.New("recording turn: empty user id")
	}
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.now()
	}
	ts := turn.CreatedAt.UTC().Format(timeLayout)
	stateAfter := turn.StateAfter.Stored()
	pending := turn.PendingURL
	if stateAfter == dialogue.StateInitial {
		pending = ""
	}

	before, after := string(turn.StateBefore.Stored()), string(turn.StateAfter)
	if turn.LogOnly {
		before, after = "", ""
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning turn transaction: %w", err)
	}
	defer tx.Rollback()

	if turn.LogOnly {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (user_id, created_at, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
			turn.UserID, ts, ts)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (user_id, last_keyword, dialogue_state, pending_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				last_keyword = excluded.last_keyword,
				dialogue_state = excluded.dialogue_state,
				pending_url = excluded.pending_url,
				updated_at = excluded.updated_at`,
			turn.UserID, nullString(turn.LastKeyword), string(stateAfter), pending, ts, ts)
	}
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chat_turns (
			id, user_id, user_message, bot_response, last_keyword,
			scraped_text, state_before, state_after, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.UserID, turn.UserMessage, turn.BotResponse,
		nullString(turn.LastKeyword), nullString(turn.ScrapedText),
		before, after, ts)
	if err != nil {
		return fmt.Errorf("inserting chat turn: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing turn: %w", err)
	}
	return nil
}

// TurnByID retrieves a single turn.
func (s *Store) TurnByID(ctx context.Context, id string) (*Turn, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+turnColumns+" FROM chat_turns WHERE id = ?", id)
	t, err := scanTurn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// Turns returns turns matching the filter, oldest first.
func (s *Store) Turns(ctx context.Context, filter TurnFilter) ([]Turn, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := "SELECT " + turnColumns + " FROM chat_turns"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chat turns: %w", err)
	}
	defer rows.Close()

	turns := []Turn{}
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, *t)
	}
	return turns, rows.Err()
}

const turnColumns = "id, user_id, user_message, bot_response, last_keyword, scraped_text, state_before, state_after, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanTurn(sc scanner) (*Turn, error) {
	var (
		t                 Turn
		kw, scraped       sql.NullString
		before, after, ts string
	)
	err := sc.Scan(&t.ID, &t.UserID, &t.UserMessage, &t.BotResponse,
		&kw, &scraped, &before, &after, &ts)
	if err != nil {
		return nil, err
	}
	t.LastKeyword = kw.String
	t.ScrapedText = scraped.String
	t.StateBefore = dialogue.State(before)
	t.StateAfter = dialogue.State(after)
	t.CreatedAt = parseTime(ts)
	return &t, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
