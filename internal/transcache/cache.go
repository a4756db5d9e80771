package transcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    audio_hash      TEXT NOT NULL,
    transcript_path TEXT NOT NULL,
    language        TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    PRIMARY KEY (audio_hash, language)
);`

// Store indexes generated transcripts by audio content hash so repeated
// runs against the same book skip the expensive transcription step.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open transcript cache: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply transcript cache schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached transcript path for an audio hash. A cache
// row whose transcript file has since been deleted is evicted and treated
// as a miss.
func (s *Store) Lookup(ctx context.Context, audioHash, language string) (string, bool, error) {
	var path string
	err := s.db.QueryRowContext(ctx,
		`SELECT transcript_path FROM transcripts WHERE audio_hash = ? AND language = ?`,
		audioHash, language,
	).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup transcript: %w", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		if evictErr := s.evict(ctx, audioHash, language); evictErr != nil {
			return "", false, evictErr
		}
		return "", false, nil
	}
	return path, true, nil
}

// Record stores or replaces the transcript location for an audio hash.
func (s *Store) Record(ctx context.Context, audioHash, language, transcriptPath string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts (audio_hash, transcript_path, language, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(audio_hash, language) DO UPDATE SET
             transcript_path = excluded.transcript_path,
             created_at = excluded.created_at`,
		audioHash, transcriptPath, language, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record transcript: %w", err)
	}
	return nil
}

func (s *Store) evict(ctx context.Context, audioHash, language string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM transcripts WHERE audio_hash = ? AND language = ?`,
		audioHash, language,
	); err != nil {
		return fmt.Errorf("evict stale transcript: %w", err)
	}
	return nil
}
