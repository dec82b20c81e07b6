package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Registers the sqlite3 driver with database/sql.
	_ "github.com/mattn/go-sqlite3"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/schema"
)

// SQLiteStore persists raw schema JSON documents keyed by (name, version) in
// a sqlite database, serving the load-on-demand access pattern: documents
// are fetched and deserialized only when a reference first needs them.
type SQLiteStore struct {
	db *sql.DB
}

const createSchemasTable = `
CREATE TABLE IF NOT EXISTS ec_schemas (
	name     TEXT COLLATE NOCASE NOT NULL,
	major    INTEGER NOT NULL,
	write    INTEGER NOT NULL,
	minor    INTEGER NOT NULL,
	document TEXT NOT NULL,
	PRIMARY KEY (name, major, write, minor)
)`

// OpenSQLiteStore opens (creating if necessary) a schema store at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open schema store: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an existing database handle. The caller keeps
// ownership of db and must have created the ec_schemas table, or call Init.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Init creates the backing table if it does not exist.
func (s *SQLiteStore) Init(ctx context.Context) error {
	return s.init(ctx)
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSchemasTable); err != nil {
		return fmt.Errorf("create schema store table: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// PutDocument stores a schema document under its exact key. A key already
// present fails with ErrAlreadyRegistered: the store, like the in-memory
// context, is append-only during a session.
func (s *SQLiteStore) PutDocument(ctx context.Context, key schema.SchemaKey, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ec_schemas (name, major, write, minor, document) VALUES (?, ?, ?, ?, ?)`,
		key.Name, key.Version.Major, key.Version.Write, key.Version.Minor, string(doc),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ecerrors.NewAlreadyRegistered(key.String())
		}
		return fmt.Errorf("store schema %s: %w", key, err)
	}
	return nil
}

// Document returns the stored schema JSON matching key under policy,
// preferring the newest acceptable version. A miss fails with
// ErrSchemaNotFound.
func (s *SQLiteStore) Document(ctx context.Context, key schema.SchemaKey, policy schema.MatchPolicy) ([]byte, error) {
	query := `SELECT document FROM ec_schemas WHERE name = ?`
	args := []any{key.Name}

	switch policy {
	case schema.MatchExact:
		query += ` AND major = ? AND write = ? AND minor = ?`
		args = append(args, key.Version.Major, key.Version.Write, key.Version.Minor)
	case schema.MatchLatestWriteCompatible:
		query += ` AND major = ? AND write = ? AND minor >= ?`
		args = append(args, key.Version.Major, key.Version.Write, key.Version.Minor)
	case schema.MatchLatest:
		// no version filter
	}
	query += ` ORDER BY major DESC, write DESC, minor DESC LIMIT 1`

	var doc string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ecerrors.NewSchemaNotFound(key.String())
	}
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", key, err)
	}
	return []byte(doc), nil
}

func isUniqueViolation(err error) bool {
	// The sqlite3 driver reports constraint violations by message; matching
	// on it avoids a hard dependency on driver error types when the store
	// wraps a handle from another driver in tests.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
