package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantalpha/quantalpha/internal/models"
)

// Store persists completed panel runs to sqlite.
type Store struct {
	db *sql.DB
}

// RunRecord is one persisted run with its metadata.
type RunRecord struct {
	ID        int64
	Symbol    string
	Status    string
	Error     string
	CreatedAt string
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_loc=Local")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol TEXT NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_outputs (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, role)
);

CREATE INDEX IF NOT EXISTS idx_runs_symbol_created ON runs(symbol, created_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// RecordRun persists one finished run and its per-role outputs.
func (s *Store) RecordRun(ctx context.Context, state *models.WorkflowState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO runs (symbol, status, error, created_at)
VALUES (?, ?, ?, ?)
`, state.StockSymbol, string(state.Status), state.Error, time.Now())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for role, content := range state.Outputs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO run_outputs (run_id, role, content)
VALUES (?, ?, ?)
`, runID, string(role), content); err != nil {
			return fmt.Errorf("insert output for %s: %w", role, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, symbol, status, error, created_at
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Status, &r.Error, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RunOutputs fetches the per-role outputs of one stored run.
func (s *Store) RunOutputs(ctx context.Context, runID int64) (map[models.AgentRole]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT role, content FROM run_outputs WHERE run_id = ?
`, runID)
	if err != nil {
		return nil, fmt.Errorf("run outputs: %w", err)
	}
	defer rows.Close()

	outputs := make(map[models.AgentRole]string)
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		outputs[models.AgentRole(role)] = content
	}
	return outputs, rows.Err()
}
