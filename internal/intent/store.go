package intent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shopassist/shopassist/internal/db"
)

// Store provides CRUD operations for the intent phrase corpus.
type Store struct {
	db *db.DB
}

// NewStore creates a new intent store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upsert inserts a phrase or replaces the reply of an existing one.
// Existing phrases keep their position in the corpus.
func (s *Store) Upsert(ctx context.Context, p Phrase) error {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return fmt.Errorf("phrase text is required")
	}
	if strings.TrimSpace(p.Reply) == "" {
		return fmt.Errorf("phrase %q: reply is required", text)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO intents (phrase, reply) VALUES (?, ?)
		 ON CONFLICT(phrase) DO UPDATE SET reply = excluded.reply, updated_at = datetime('now')`,
		text, p.Reply,
	)
	if err != nil {
		return fmt.Errorf("upserting intent %q: %w", text, err)
	}
	return nil
}

// List returns every phrase in insertion order.
func (s *Store) List(ctx context.Context) ([]Phrase, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT phrase, reply FROM intents ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing intents: %w", err)
	}
	defer rows.Close()

	var phrases []Phrase
	for rows.Next() {
		var p Phrase
		if err := rows.Scan(&p.Text, &p.Reply); err != nil {
			return nil, fmt.Errorf("scanning intent: %w", err)
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

// Reply returns the canned reply for an exact phrase.
func (s *Store) Reply(ctx context.Context, phrase string) (string, error) {
	var reply string
	err := s.db.QueryRowContext(ctx, `SELECT reply FROM intents WHERE phrase = ?`, phrase).Scan(&reply)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("looking up reply for %q: %w", phrase, err)
	}
	return reply, nil
}

// Delete removes a phrase.
func (s *Store) Delete(ctx context.Context, phrase string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM intents WHERE phrase = ?`, phrase)
	if err != nil {
		return fmt.Errorf("deleting intent %q: %w", phrase, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored phrases.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM intents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting intents: %w", err)
	}
	return n, nil
}

// seedFile is the YAML layout accepted by LoadSeedFile.
type seedFile struct {
	Intents []Phrase `yaml:"intents"`
}

// LoadSeedFile reads phrases from a YAML file of the form:
//
//	intents:
//	  - phrase: สวัสดี
//	    reply: สวัสดีครับ ต้องการหารองเท้าแบบไหนครับ
func LoadSeedFile(path string) ([]Phrase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return f.Intents, nil
}
