// Package journal keeps a local history of lifecycle operations in sqlite.
// The journal is advisory: recording failures are logged and never fail the
// operation being recorded.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"popctl/pkg/model"
)

// DefaultPath lives under the tool's own directory, not the node state
// directory, so restores cannot wipe the history.
const DefaultPath = "/var/lib/popctl/state.db"

// Journal is an append-mostly operation log backed by a single-connection
// sqlite database.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path and ensures
// the schema.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal mkdir: %w", err)
	}
	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal open: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS operations(id TEXT PRIMARY KEY, action TEXT, detail TEXT, status TEXT, ts INTEGER); CREATE INDEX IF NOT EXISTS idx_operations_ts ON operations(ts);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record appends one operation row. Best-effort; failures are logged only.
func (j *Journal) Record(action, detail, status string) {
	if j == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO operations(id, action, detail, status, ts) VALUES(?,?,?,?,?)`,
		uuid.NewString(), action, detail, status, time.Now().Unix())
	if err != nil {
		log.Printf("journal record failed: %v", err)
	}
}

// Recent returns up to limit operations, newest first.
func (j *Journal) Recent(limit int) ([]model.Operation, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, action, detail, status, ts FROM operations ORDER BY ts DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var ops []model.Operation
	for rows.Next() {
		var op model.Operation
		var ts int64
		if err := rows.Scan(&op.ID, &op.Action, &op.Detail, &op.Status, &ts); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		op.Timestamp = time.Unix(ts, 0)
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
