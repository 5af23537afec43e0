package templatestore

import (
	"context"
	"fmt"
	"time"

	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
)

// defaultPoolSize bounds the number of concurrently held SQLite connections.
const defaultPoolSize = 10

// SQLiteTemplateStore is an implementation of TemplateStore that uses
// SQLite. Connections are drawn from a pool for the duration of a single
// call and returned before the call completes, on every exit path.
type SQLiteTemplateStore struct {
	pool   *sqlitex.Pool
	dbPath string
}

// NewSQLiteTemplateStore creates a new SQLiteTemplateStore instance.
func NewSQLiteTemplateStore() *SQLiteTemplateStore {
	return &SQLiteTemplateStore{}
}

// Initialize opens the database and ensures the schema exists.
func (s *SQLiteTemplateStore) Initialize(dbPath string) error {
	s.dbPath = dbPath

	pool, err := sqlitex.Open(dbPath, 0, defaultPoolSize)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %w", err)
	}
	s.pool = pool

	if err := s.createTable(); err != nil {
		s.pool.Close()
		s.pool = nil
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// createTable creates the facial_templates table if it doesn't exist.
func (s *SQLiteTemplateStore) createTable() error {
	conn := s.pool.Get(context.Background())
	if conn == nil {
		return fmt.Errorf("failed to acquire database connection")
	}
	defer s.pool.Put(conn)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS facial_templates (
		fan_id     TEXT PRIMARY KEY,
		encoding   BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`

	return sqlitex.ExecScript(conn, createTableSQL)
}

// Close closes the store and releases any resources.
func (s *SQLiteTemplateStore) Close() error {
	if s.pool != nil {
		return s.pool.Close()
	}
	return nil
}

// Save upserts the template for fanID, preserving created_at on overwrite.
func (s *SQLiteTemplateStore) Save(ctx context.Context, fanID string, encoding []byte, now time.Time) error {
	conn := s.pool.Get(ctx)
	if conn == nil {
		return fmt.Errorf("failed to acquire database connection")
	}
	defer s.pool.Put(conn)

	upsertSQL := `
	INSERT INTO facial_templates (fan_id, encoding, created_at, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(fan_id) DO UPDATE SET
		encoding = excluded.encoding,
		updated_at = excluded.updated_at;`

	err := sqlitex.Exec(conn, upsertSQL, nil, fanID, encoding, now.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert template for %s: %w", fanID, err)
	}

	return nil
}

// Get returns the stored template for fanID, or ErrTemplateNotFound.
func (s *SQLiteTemplateStore) Get(ctx context.Context, fanID string) (*Template, error) {
	conn := s.pool.Get(ctx)
	if conn == nil {
		return nil, fmt.Errorf("failed to acquire database connection")
	}
	defer s.pool.Put(conn)

	selectSQL := `
	SELECT encoding, created_at, updated_at FROM facial_templates
	WHERE fan_id = ?;`

	var tmpl *Template
	err := sqlitex.Exec(conn, selectSQL, func(stmt *sqlite.Stmt) error {
		encoding := make([]byte, stmt.ColumnLen(0))
		stmt.ColumnBytes(0, encoding)

		tmpl = &Template{
			FanID:     fanID,
			Encoding:  encoding,
			CreatedAt: time.Unix(stmt.ColumnInt64(1), 0).UTC(),
			UpdatedAt: time.Unix(stmt.ColumnInt64(2), 0).UTC(),
		}
		return nil
	}, fanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query template for %s: %w", fanID, err)
	}

	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

// Delete removes the template for fanID.
func (s *SQLiteTemplateStore) Delete(ctx context.Context, fanID string) error {
	conn := s.pool.Get(ctx)
	if conn == nil {
		return fmt.Errorf("failed to acquire database connection")
	}
	defer s.pool.Put(conn)

	deleteSQL := `DELETE FROM facial_templates WHERE fan_id = ?;`

	if err := sqlitex.Exec(conn, deleteSQL, nil, fanID); err != nil {
		return fmt.Errorf("failed to delete template for %s: %w", fanID, err)
	}

	if conn.Changes() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
