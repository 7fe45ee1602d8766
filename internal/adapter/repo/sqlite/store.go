// Package sqliterepo is a single-file kv.Backend for running the colony without a database server.
package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"colonyai/internal/adapter/repo/kv"
	"colonyai/internal/app/ports"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memory_entries (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (namespace, key)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKeyType struct{}

var txKey = txKeyType{}

func (s *Store) conn(ctx context.Context) queryer {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return s.db
}

// RunInTx makes every Store call made with the returned ctx share one transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s *Store) Get(ctx context.Context, ns, key string) ([]byte, error) {
	var value string
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT value FROM memory_entries WHERE namespace=? AND key=?`, ns, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", ns, key, err)
	}
	return []byte(value), nil
}

func (s *Store) Put(ctx context.Context, ns, key string, value []byte) error {
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO memory_entries(namespace,key,value,updated_at) VALUES(?,?,?,?)
		 ON CONFLICT(namespace,key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		ns, key, string(value), now())
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", ns, key, err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, ns, key string, value []byte) error {
	res, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO memory_entries(namespace,key,value,updated_at) VALUES(?,?,?,?) ON CONFLICT(namespace,key) DO NOTHING`,
		ns, key, string(value), now())
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", ns, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", ns, key, err)
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ns, key string) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM memory_entries WHERE namespace=? AND key=?`, ns, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", ns, key, err)
	}
	return nil
}

// List orders by rowid, which an upsert leaves untouched.
func (s *Store) List(ctx context.Context, ns string) ([]kv.Entry, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT key, value FROM memory_entries WHERE namespace=? ORDER BY rowid`, ns)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ns, err)
	}
	defer rows.Close()
	out := make([]kv.Entry, 0)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("list %s: %w", ns, err)
		}
		out = append(out, kv.Entry{Key: key, Value: []byte(value)})
	}
	return out, rows.Err()
}
