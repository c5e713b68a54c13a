// Package sqlstore provides a Store backed by SQLite. Each value is stored
// with a kind discriminator so the primitive type survives the round trip.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/graft/pkg/core"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS graft_kv (
	key   TEXT PRIMARY KEY,
	kind  TEXT NOT NULL,
	value BLOB NOT NULL
)`

// Store persists primitives in a single SQLite table.
type Store struct {
	db   *sql.DB
	path string
}

var _ core.Store = (*Store)(nil)

// New opens (and if needed creates) a SQLite store at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// NewFromDB wraps an existing connection. The caller keeps ownership of db.
func NewFromDB(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes a value under key, overwriting any previous value.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	kind, blob, err := encodeValue(value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graft_kv (key, kind, value) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET kind = excluded.kind, value = excluded.value`,
		key, kind, blob)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Get retrieves the value under key.
func (s *Store) Get(ctx context.Context, key string) (any, bool, error) {
	var kind string
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, value FROM graft_kv WHERE key = ?`, key).Scan(&kind, &blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	v, err := decodeValue(kind, blob)
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

// Delete removes a key. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM graft_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// List returns all keys in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM graft_kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM graft_kv`); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// encodeValue flattens a canonical primitive into a kind tag and a blob.
func encodeValue(v any) (string, []byte, error) {
	switch n := v.(type) {
	case string:
		return "string", []byte(n), nil
	case int64:
		return "int", []byte(strconv.FormatInt(n, 10)), nil
	case int:
		return "int", []byte(strconv.FormatInt(int64(n), 10)), nil
	case float64:
		return "float", []byte(strconv.FormatFloat(n, 'g', -1, 64)), nil
	case bool:
		return "bool", []byte(strconv.FormatBool(n)), nil
	case []byte:
		return "bytes", n, nil
	}
	return "", nil, fmt.Errorf("%w: cannot store %T", core.ErrTypeMismatch, v)
}

func decodeValue(kind string, blob []byte) (any, error) {
	switch kind {
	case "string":
		return string(blob), nil
	case "int":
		return strconv.ParseInt(string(blob), 10, 64)
	case "float":
		return strconv.ParseFloat(string(blob), 64)
	case "bool":
		return strconv.ParseBool(string(blob))
	case "bytes":
		out := make([]byte, len(blob))
		copy(out, blob)
		return out, nil
	}
	return nil, fmt.Errorf("unknown stored kind %q", kind)
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path string `json:"path"`
	Keys int    `json:"keys"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	var keys int
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM graft_kv`).Scan(&keys)
	return StoreState{Path: s.path, Keys: keys}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlstore"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
