package poems

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS poems (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT    NOT NULL UNIQUE,
    author     TEXT    NOT NULL,
    title      TEXT    NOT NULL,
    poem       TEXT    NOT NULL,
    score      INTEGER NOT NULL,
    created_at TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poems_score ON poems(score DESC, seq);
`

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore is the local leaderboard used when no remote store is
// configured.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, poem *Poem) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO poems (id, author, title, poem, score, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, poem.Author, poem.Title, poem.Poem, poem.Score, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert poem: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]Poem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, title, poem, score FROM poems ORDER BY score DESC, seq LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query top poems: %w", err)
	}
	defer rows.Close()

	poems := []Poem{}
	for rows.Next() {
		var p Poem
		if err := rows.Scan(&p.ID, &p.Author, &p.Title, &p.Poem, &p.Score); err != nil {
			return nil, fmt.Errorf("scan poem: %w", err)
		}
		poems = append(poems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate poems: %w", err)
	}
	return poems, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
