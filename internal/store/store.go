// Package store persists allocation runs in a local SQLite database so they
// can be listed and re-rendered later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"topic-allocator/internal/allocate"
)

var (
	// ErrRunNotFound is returned when no saved run matches an ID.
	ErrRunNotFound = errors.New("store: run not found")
	// ErrAmbiguousID is returned when an ID prefix matches several runs.
	ErrAmbiguousID = errors.New("store: ambiguous run id")
)

// minPrefix is the shortest ID prefix GetRun resolves.
const minPrefix = 4

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL,
	source TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	col_count INTEGER NOT NULL,
	fill REAL NOT NULL,
	filled INTEGER NOT NULL,
	unassigned_rows TEXT NOT NULL DEFAULT '[]',
	unassigned_cols TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS pairs (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL,
	row_label TEXT NOT NULL,
	col_label TEXT NOT NULL,
	cost REAL NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Run is a saved allocation.
type Run struct {
	ID        string
	CreatedAt time.Time
	Result    *allocate.Result
}

// Summary is one line of the run history.
type Summary struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Pairs     int
	Total     float64
}

// Store is a SQLite-backed run history.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// New opens (creating if needed) the database at dbPath.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to open database: %w", err)
	}

	// A single connection keeps PRAGMAs in effect and serializes writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: failed to create tables: %w", err)
	}

	log.Debug("store opened", zap.String("path", dbPath))

	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists res under a fresh ID and returns the stored run. Stats
// are not stored; they are recomputed from the pairs on read.
func (s *Store) SaveRun(ctx context.Context, res *allocate.Result) (*Run, error) {
	if res == nil {
		return nil, errors.New("storage: nil result")
	}

	unassignedRows, err := json.Marshal(nonNil(res.UnassignedRows))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to marshal unassigned rows: %w", err)
	}

	unassignedCols, err := json.Marshal(nonNil(res.UnassignedCols))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to marshal unassigned columns: %w", err)
	}

	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Result:    res,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, source, row_count, col_count, fill, filled, unassigned_rows, unassigned_cols)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UnixNano(), res.Source, res.Rows, res.Cols, res.Fill, res.Filled,
		string(unassignedRows), string(unassignedCols))
	if err != nil {
		return nil, fmt.Errorf("storage: failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pairs (run_id, seq, row_label, col_label, cost) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to prepare pair insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range res.Pairs {
		if _, err := stmt.ExecContext(ctx, run.ID, i, p.Row, p.Column, p.Cost); err != nil {
			return nil, fmt.Errorf("storage: failed to insert pair %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: failed to commit run: %w", err)
	}

	s.log.Info("run saved",
		zap.String("id", run.ID),
		zap.String("source", res.Source),
		zap.Int("pairs", len(res.Pairs)))

	return run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 lists all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.source, COUNT(p.seq), COALESCE(SUM(p.cost), 0)
		FROM runs r LEFT JOIN pairs p ON p.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			created int64
		)

		if err := rows.Scan(&sum.ID, &created, &sum.Source, &sum.Pairs, &sum.Total); err != nil {
			return nil, fmt.Errorf("storage: failed to scan run: %w", err)
		}

		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: failed to list runs: %w", err)
	}

	return out, nil
}

// GetRun loads a run by its full ID or by a unique prefix of at least four
// characters.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)

	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		run            = &Run{ID: fullID, Result: &allocate.Result{}}
		created        int64
		unassignedRows string
		unassignedCols string
	)

	res := run.Result

	err = s.db.QueryRowContext(ctx, `
		SELECT created_at, source, row_count, col_count, fill, filled, unassigned_rows, unassigned_cols
		FROM runs WHERE id = ?`, fullID).
		Scan(&created, &res.Source, &res.Rows, &res.Cols, &res.Fill, &res.Filled, &unassignedRows, &unassignedCols)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: failed to get run: %w", err)
	}

	run.CreatedAt = time.Unix(0, created).UTC()

	if err := json.Unmarshal([]byte(unassignedRows), &res.UnassignedRows); err != nil {
		return nil, fmt.Errorf("storage: failed to decode unassigned rows: %w", err)
	}
	if err := json.Unmarshal([]byte(unassignedCols), &res.UnassignedCols); err != nil {
		return nil, fmt.Errorf("storage: failed to decode unassigned columns: %w", err)
	}

	res.UnassignedRows = nilIfEmpty(res.UnassignedRows)
	res.UnassignedCols = nilIfEmpty(res.UnassignedCols)

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_label, col_label, cost FROM pairs WHERE run_id = ? ORDER BY seq`, fullID)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to get pairs: %w", err)
	}
	defer rows.Close()

	res.Pairs = []allocate.Pair{}
	for rows.Next() {
		var p allocate.Pair
		if err := rows.Scan(&p.Row, &p.Column, &p.Cost); err != nil {
			return nil, fmt.Errorf("storage: failed to scan pair: %w", err)
		}

		res.Pairs = append(res.Pairs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: failed to get pairs: %w", err)
	}

	res.Stats = allocate.StatsOf(res.Pairs)

	return run, nil
}

// DeleteRun removes a run and its pairs.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM pairs WHERE run_id = ?`, `DELETE FROM runs WHERE id = ?`} {
		if _, err := tx.ExecContext(ctx, q, fullID); err != nil {
			return fmt.Errorf("storage: failed to delete run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: failed to commit delete: %w", err)
	}

	s.log.Info("run deleted", zap.String("id", fullID))

	return nil
}

func (s *Store) resolveID(ctx context.Context, id string) (string, error) {
	if len(id) < minPrefix {
		return "", fmt.Errorf("%w: %q (need at least %d characters)", ErrRunNotFound, id, minPrefix)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs WHERE id = ? OR substr(id, 1, ?) = ? LIMIT 2`, id, len(id), id)
	if err != nil {
		return "", fmt.Errorf("storage: failed to resolve run id: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return "", fmt.Errorf("storage: failed to resolve run id: %w", err)
		}

		if m == id {
			return m, nil
		}

		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("storage: failed to resolve run id: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}

	return s
}
