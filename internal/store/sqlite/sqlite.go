// Package sqlite is a Store backend on an embedded SQLite database.
//
// Documents live in a single table keyed by (genre, id). Connections
// come from a fixed-size pool; SQLite serializes writers, so Put and
// Remove run inside IMMEDIATE transactions to make their read of the
// previous row and their write atomic.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"genresim/internal/domain"
	"genresim/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	genre TEXT NOT NULL,
	id    TEXT NOT NULL,
	body  TEXT NOT NULL,
	PRIMARY KEY (genre, id)
) WITHOUT ROWID;
`

// Config holds the parameters for opening the store.
type Config struct {
	// Path is the database file. It is created if missing; its parent
	// directory must exist.
	Path string

	// PoolSize defaults to max(runtime.NumCPU(), 4).
	PoolSize int

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Storage implements domain.Store and domain.Catalog.
type Storage struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
	closed atomic.Bool
}

// Open creates the connection pool. Connections are prepared lazily;
// the schema is applied on each connection's first use.
func Open(cfg Config) (*Storage, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite store: Path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = max(runtime.NumCPU(), 4)
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite store: opening %s: %w", cfg.Path, err)
	}
	logger.Info("sqlite store opened", "path", cfg.Path, "pool_size", poolSize)
	return &Storage{pool: pool, logger: logger, path: cfg.Path}, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return sqlitex.ExecuteScript(conn, schema, nil)
}

func (s *Storage) take(ctx context.Context, op, genre string) (*sqlite.Conn, error) {
	if s.closed.Load() {
		return nil, &domain.StoreError{Op: op, Genre: genre, Err: store.ErrClosed}
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, &domain.StoreError{Op: op, Genre: genre, Err: err}
	}
	return conn, nil
}

func (s *Storage) Get(ctx context.Context, genre string) ([]string, error) {
	conn, err := s.take(ctx, "get", genre)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	ids := []string{}
	err = sqlitex.Execute(conn, `SELECT id FROM documents WHERE genre = ? ORDER BY id`, &sqlitex.ExecOptions{
		Args: []any{genre},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ids = append(ids, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, &domain.StoreError{Op: "get", Genre: genre, Err: err}
	}
	return ids, nil
}

func (s *Storage) Put(ctx context.Context, genre string, doc domain.Document) (previous domain.Document, replaced bool, err error) {
	conn, err := s.take(ctx, "put", genre)
	if err != nil {
		return domain.Document{}, false, err
	}
	defer s.pool.Put(conn)

	previous, replaced, err = s.put(conn, genre, doc)
	if err != nil {
		return domain.Document{}, false, &domain.StoreError{Op: "put", Genre: genre, Err: err}
	}
	return previous, replaced, nil
}

func (s *Storage) put(conn *sqlite.Conn, genre string, doc domain.Document) (previous domain.Document, replaced bool, err error) {
	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return domain.Document{}, false, err
	}
	defer endTransaction(&err)

	previous, replaced, err = selectDocument(conn, genre, doc.ID)
	if err != nil {
		return domain.Document{}, false, err
	}
	err = sqlitex.Execute(conn, `
		INSERT INTO documents (genre, id, body) VALUES (?, ?, ?)
		ON CONFLICT (genre, id) DO UPDATE SET body = excluded.body`,
		&sqlitex.ExecOptions{Args: []any{genre, doc.ID, doc.Text}})
	if err != nil {
		return domain.Document{}, false, err
	}
	return previous, replaced, nil
}

func (s *Storage) Remove(ctx context.Context, genre, id string) (domain.Document, bool, error) {
	conn, err := s.take(ctx, "remove", genre)
	if err != nil {
		return domain.Document{}, false, err
	}
	defer s.pool.Put(conn)

	doc, ok, err := s.remove(conn, genre, id)
	if err != nil {
		return domain.Document{}, false, &domain.StoreError{Op: "remove", Genre: genre, Err: err}
	}
	return doc, ok, nil
}

func (s *Storage) remove(conn *sqlite.Conn, genre, id string) (doc domain.Document, ok bool, err error) {
	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return domain.Document{}, false, err
	}
	defer endTransaction(&err)

	doc, ok, err = selectDocument(conn, genre, id)
	if err != nil || !ok {
		return domain.Document{}, false, err
	}
	err = sqlitex.Execute(conn, `DELETE FROM documents WHERE genre = ? AND id = ?`,
		&sqlitex.ExecOptions{Args: []any{genre, id}})
	if err != nil {
		return domain.Document{}, false, err
	}
	return doc, true, nil
}

func selectDocument(conn *sqlite.Conn, genre, id string) (domain.Document, bool, error) {
	var doc domain.Document
	found := false
	err := sqlitex.Execute(conn, `SELECT body FROM documents WHERE genre = ? AND id = ?`, &sqlitex.ExecOptions{
		Args: []any{genre, id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			doc = domain.Document{ID: id, Text: stmt.ColumnText(0)}
			found = true
			return nil
		},
	})
	return doc, found, err
}

// Genres lists the distinct genres with at least one stored document.
func (s *Storage) Genres(ctx context.Context) ([]string, error) {
	conn, err := s.take(ctx, "genres", "")
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	names := []string{}
	err = sqlitex.Execute(conn, `SELECT DISTINCT genre FROM documents ORDER BY genre`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, &domain.StoreError{Op: "genres", Err: err}
	}
	return names, nil
}

func (s *Storage) Document(ctx context.Context, genre, id string) (domain.Document, bool, error) {
	conn, err := s.take(ctx, "document", genre)
	if err != nil {
		return domain.Document{}, false, err
	}
	defer s.pool.Put(conn)

	doc, ok, err := selectDocument(conn, genre, id)
	if err != nil {
		return domain.Document{}, false, &domain.StoreError{Op: "document", Genre: genre, Err: err}
	}
	return doc, ok, nil
}

// Close closes every pooled connection. It blocks until borrowed
// connections are returned.
func (s *Storage) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if err := s.pool.Close(); err != nil {
		s.logger.Error("sqlite store close error", "path", s.path, "error", err)
		return &domain.StoreError{Op: "close", Err: err}
	}
	s.logger.Info("sqlite store closed", "path", s.path)
	return nil
}
