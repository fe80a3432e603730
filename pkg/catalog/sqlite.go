package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"sentinel/policyrtd/pkg/policylang/ast"
)

// SQLiteConfig configures the SQLite-backed Store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/catalog.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store over a SQLite database, so a catalog
// survives process restarts. Policies are persisted as JSON-encoded ASTs;
// SQLite has no opinion on the asset language, it just durably keys a
// document by policy id.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
}

// NewSQLiteStore opens (and, if needed, creates) the catalog database at
// config.Path.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", config.Path, config.BusyTimeout.Milliseconds())
	if config.WALMode {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Backend: "sqlite", Operation: "open", Cause: err}
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{db: db, config: config}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS policies (
			id         TEXT PRIMARY KEY,
			document   TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return &StoreError{Backend: "sqlite", Operation: "migrate", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*ast.Policy, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM policies WHERE id = ?`, id).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{PolicyID: id}
	}
	if err != nil {
		return nil, &StoreError{Backend: "sqlite", Operation: "get", Cause: err}
	}

	var policy ast.Policy
	if err := json.Unmarshal([]byte(document), &policy); err != nil {
		return nil, &StoreError{Backend: "sqlite", Operation: "decode", Cause: err}
	}
	return &policy, nil
}

func (s *SQLiteStore) Put(ctx context.Context, policy *ast.Policy) error {
	if policy.Name == "" {
		return &StoreError{Backend: "sqlite", Operation: "put", Cause: errEmptyPolicyName}
	}

	document, err := json.Marshal(policy)
	if err != nil {
		return &StoreError{Backend: "sqlite", Operation: "encode", Cause: err}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO policies (id, document, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at
	`, policy.Name, string(document), time.Now())
	if err != nil {
		return &StoreError{Backend: "sqlite", Operation: "put", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM policies WHERE id = ?`, id)
	if err != nil {
		return &StoreError{Backend: "sqlite", Operation: "delete", Cause: err}
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM policies`)
	if err != nil {
		return nil, &StoreError{Backend: "sqlite", Operation: "list", Cause: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &StoreError{Backend: "sqlite", Operation: "list", Cause: err}
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
