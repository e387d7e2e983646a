package docstate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/cursorword/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DB is the sqlite database holding state for every document.
type DB struct {
	conn *sql.DB
	path string
}

// OpenDB opens or creates the database at path and migrates it to the
// latest schema. An existing database is copied to path+".bak" before any
// migration runs.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	conn, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to state database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(existed); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatStore, "Opened state database", "path", path)
	return db, nil
}

func (db *DB) migrate(existed bool) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	if existed {
		current, _, verr := m.Version()
		latest, lerr := latestVersion(src)
		if lerr == nil && (errors.Is(verr, migrate.ErrNilVersion) || current < latest) {
			if err := db.backup(); err != nil {
				return err
			}
		}
	}

	// m.Close would close db.conn as well, so the migrator is simply dropped.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating state database: %w", err)
	}
	return nil
}

type versionSource interface {
	First() (uint, error)
	Next(version uint) (uint, error)
}

func latestVersion(src versionSource) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			return v, nil
		}
		v = next
	}
}

func (db *DB) backup() error {
	in, err := os.Open(db.path)
	if err != nil {
		return fmt.Errorf("opening database for backup: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(db.path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	log.Info(log.CatStore, "Backed up state database before migration", "path", db.path+".bak")
	return out.Close()
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Document returns the Store for one document, identified by its path.
func (db *DB) Document(document string) *SQLite {
	return &SQLite{db: db, document: document}
}

// Documents returns every document with stored state, most recently updated
// first.
func (db *DB) Documents(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT document FROM document_state GROUP BY document ORDER BY MAX(updated_at) DESC, document`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SQLite is the Store of one document inside a DB.
type SQLite struct {
	db       *DB
	document string
}

// Ensure SQLite implements Store.
var _ Store = (*SQLite)(nil)

// String implements Store.
func (s *SQLite) String(ctx context.Context, key, def string) (string, error) {
	var v string
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT value FROM document_state WHERE document = ? AND key = ?`, s.document, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return v, nil
}

// SetString implements Store.
func (s *SQLite) SetString(ctx context.Context, key, value string) error {
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO document_state (document, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (document, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.document, key, value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	log.Debug(log.CatStore, "Stored value", "document", s.document, "key", key)
	return nil
}

// Int implements Store.
func (s *SQLite) Int(ctx context.Context, key string, def int) (int, error) {
	v, err := s.String(ctx, key, "")
	if err != nil || v == "" {
		return def, err
	}
	return parseInt(key, v)
}

// SetInt implements Store.
func (s *SQLite) SetInt(ctx context.Context, key string, value int) error {
	return s.SetString(ctx, key, strconv.Itoa(value))
}

// Erase implements Store.
func (s *SQLite) Erase(ctx context.Context, key string) error {
	_, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM document_state WHERE document = ? AND key = ?`, s.document, key)
	if err != nil {
		return fmt.Errorf("erasing %q: %w", key, err)
	}
	return nil
}
