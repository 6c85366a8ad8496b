package qualitylog

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

// Entry is one recorded generation verdict.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Model     string    `json:"model"`
	Task      string    `json:"task"`
	Verdict   string    `json:"verdict"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps a persistent audit trail of quality-control verdicts: for each
// generation, which model ran, how long it took, and whether its output was
// accepted, replaced by the rule-based fallback, or apologized away.
type Store struct {
	db *sql.DB
}

// NewStore creates/opens the verdict database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create quality log dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open quality log db: %w", err)
	}
	// Single-process writer. One shared connection avoids SQLite writer lock
	// contention under concurrent goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS verdicts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			model TEXT NOT NULL,
			task TEXT NOT NULL,
			verdict TEXT NOT NULL,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			created_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS verdicts_created_idx ON verdicts(created_at_ms DESC);`,
		`CREATE INDEX IF NOT EXISTS verdicts_session_idx ON verdicts(session_id, created_at_ms DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init quality log schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO verdicts(id, session_id, model, task, verdict, latency_ms, created_at_ms)
VALUES(?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Model, e.Task, e.Verdict, e.LatencyMS, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record verdict: %w", err)
	}
	return nil
}

// Recent returns the newest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, model, task, verdict, latency_ms, created_at_ms
FROM verdicts
ORDER BY created_at_ms DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list verdicts: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var createdMS int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Model, &e.Task, &e.Verdict, &e.LatencyMS, &createdMS); err != nil {
			return nil, fmt.Errorf("scan verdict: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdMS)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdicts: %w", err)
	}
	return out, nil
}

// Counts returns the total number of entries per verdict.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT verdict, COUNT(*) FROM verdicts GROUP BY verdict`)
	if err != nil {
		return nil, fmt.Errorf("count verdicts: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, fmt.Errorf("scan verdict count: %w", err)
		}
		out[verdict] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdict counts: %w", err)
	}
	return out, nil
}
