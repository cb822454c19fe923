// Package history keeps a SQLite ledger of reconciliation runs so users can
// see what install, update, switch and eject changed and what failed.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/conn-castle/bottle/internal/messages"
)

// FileName is the ledger's file name inside the bottle home.
const FileName = "history.db"

// tsLayout is fixed-width so stored timestamps sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Run is one command invocation that changed (or tried to change) state.
type Run struct {
	ID          string
	Command     string
	Bottle      string
	FromVersion string
	ToVersion   string
	StartedAt   time.Time
	FinishedAt  time.Time
	Items       []Item
}

// Failed returns the number of items that did not apply.
func (r Run) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Error != "" {
			n++
		}
	}
	return n
}

// Item is one plan item processed during a run.
type Item struct {
	Kind        string
	Name        string
	Action      string
	FromVersion string
	ToVersion   string
	Method      string
	// Error is empty when the item applied.
	Error string
}

// Store is an open ledger.
type Store struct {
	db *sql.DB
}

// Open opens the ledger at path, creating it and applying migrations as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf(messages.HistoryCreateDirFmt, err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf(messages.HistoryOpenFmt, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(messages.HistoryPingFmt, err)
	}
	if err := os.Chmod(path, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = db.Close()
		return nil, fmt.Errorf(messages.HistoryChmodFmt, err)
	}
	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores run and its items in one transaction and returns the run id,
// generating one when run.ID is empty.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf(messages.HistoryRecordRunFmt, run.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO runs(run_id, command, bottle, from_version, to_version, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Bottle, run.FromVersion, run.ToVersion, ts(run.StartedAt), ts(run.FinishedAt))
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf(messages.HistoryRecordRunFmt, run.ID, err)
	}
	for seq, item := range run.Items {
		_, err := tx.ExecContext(ctx, `
INSERT INTO run_items(run_id, seq, kind, name, action, from_version, to_version, method, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, seq, item.Kind, item.Name, item.Action, item.FromVersion, item.ToVersion, item.Method, item.Error)
		if err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf(messages.HistoryRecordRunFmt, run.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf(messages.HistoryRecordRunFmt, run.ID, err)
	}
	return run.ID, nil
}

// List returns up to limit runs, newest first, with their items. A limit of
// zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, command, bottle, from_version, to_version, started_at, finished_at
FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf(messages.HistoryListRunsFmt, err)
	}
	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Command, &run.Bottle, &run.FromVersion, &run.ToVersion, &started, &finished); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf(messages.HistoryListRunsFmt, err)
		}
		if run.StartedAt, err = parseTS(started); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if run.FinishedAt, err = parseTS(finished); err != nil {
			_ = rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf(messages.HistoryListRunsFmt, err)
	}
	_ = rows.Close()

	for i := range runs {
		items, err := s.items(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Items = items
	}
	return runs, nil
}

func (s *Store) items(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT kind, name, action, from_version, to_version, method, error
FROM run_items WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf(messages.HistoryListItemsFmt, runID, err)
	}
	defer rows.Close() //nolint:errcheck
	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Kind, &item.Name, &item.Action, &item.FromVersion, &item.ToVersion, &item.Method, &item.Error); err != nil {
			return nil, fmt.Errorf(messages.HistoryListItemsFmt, runID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(messages.HistoryListItemsFmt, runID, err)
	}
	return items, nil
}

func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(value string) (time.Time, error) {
	t, err := time.Parse(tsLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf(messages.HistoryParseTimeFmt, value, err)
	}
	return t, nil
}
