package engine

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Phrase is a user phrase with its reading and use count.
type Phrase struct {
	Phrase  string
	Reading string // numbered pinyin syllables joined by spaces
	Freq    int
	Updated time.Time
}

// PhraseStore is where user phrases live.
type PhraseStore interface {
	Lookup(reading string) ([]Phrase, error)
	Add(phrase, reading string) error
	Bump(phrase, reading string) error
}

var ErrEmptyPhrase = errors.New("empty phrase")

// UserPhrases is a PhraseStore backed by a SQLite database.
type UserPhrases struct {
	db *sql.DB
}

var userPhraseSchema = []string{
	`CREATE TABLE IF NOT EXISTS user_phrases (
		phrase  TEXT NOT NULL,
		reading TEXT NOT NULL,
		freq    INTEGER NOT NULL DEFAULT 1,
		updated INTEGER NOT NULL,
		PRIMARY KEY (phrase, reading)
	)`,
	`CREATE INDEX IF NOT EXISTS user_phrases_reading ON user_phrases(reading)`,
}

// OpenUserPhrases opens (creating if needed) the phrase database at path.
// ":memory:" opens a private in-memory database.
func OpenUserPhrases(path string) (*UserPhrases, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating phrase dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: every statement sees the same in-memory database.
	db.SetMaxOpenConns(1)

	for _, stmt := range userPhraseSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	return &UserPhrases{db: db}, nil
}

// Close closes the database.
func (u *UserPhrases) Close() error {
	return u.db.Close()
}

// Add stores a phrase, or bumps its count if it exists.
func (u *UserPhrases) Add(phrase, reading string) error {
	if phrase == "" || reading == "" {
		return ErrEmptyPhrase
	}
	_, err := u.db.Exec(`
		INSERT INTO user_phrases (phrase, reading, freq, updated)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(phrase, reading) DO UPDATE SET
			freq = freq + 1,
			updated = excluded.updated
	`, phrase, reading, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("adding phrase %q: %w", phrase, err)
	}
	return nil
}

// Bump raises the count of an existing phrase. Unknown phrases are left
// alone.
func (u *UserPhrases) Bump(phrase, reading string) error {
	_, err := u.db.Exec(`
		UPDATE user_phrases SET freq = freq + 1, updated = ?
		WHERE phrase = ? AND reading = ?
	`, time.Now().Unix(), phrase, reading)
	if err != nil {
		return fmt.Errorf("bumping phrase %q: %w", phrase, err)
	}
	return nil
}

// Remove deletes a phrase. It reports whether a row was removed.
func (u *UserPhrases) Remove(phrase, reading string) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if reading == "" {
		res, err = u.db.Exec(`DELETE FROM user_phrases WHERE phrase = ?`, phrase)
	} else {
		res, err = u.db.Exec(`DELETE FROM user_phrases WHERE phrase = ? AND reading = ?`, phrase, reading)
	}
	if err != nil {
		return false, fmt.Errorf("removing phrase %q: %w", phrase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("removing phrase %q: %w", phrase, err)
	}
	return n > 0, nil
}

// Lookup returns the phrases read as reading, most used first.
func (u *UserPhrases) Lookup(reading string) ([]Phrase, error) {
	return u.query(`
		SELECT phrase, reading, freq, updated FROM user_phrases
		WHERE reading = ?
		ORDER BY freq DESC, updated DESC, phrase
	`, reading)
}

// List returns every phrase ordered by reading.
func (u *UserPhrases) List() ([]Phrase, error) {
	return u.query(`
		SELECT phrase, reading, freq, updated FROM user_phrases
		ORDER BY reading, freq DESC
	`)
}

func (u *UserPhrases) query(q string, args ...any) ([]Phrase, error) {
	rows, err := u.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying phrases: %w", err)
	}
	defer rows.Close()

	var out []Phrase
	for rows.Next() {
		var p Phrase
		var updated int64
		if err := rows.Scan(&p.Phrase, &p.Reading, &p.Freq, &updated); err != nil {
			return nil, fmt.Errorf("scanning phrase: %w", err)
		}
		p.Updated = time.Unix(updated, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}

// DefaultPhrasePath returns the phrase database path under the data dir.
func DefaultPhrasePath() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "bopo", "phrases.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "bopo", "phrases.db"), nil
}
