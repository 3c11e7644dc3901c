package localstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SqliteStore persists the local tier in a single sqlite file, so that it survives
// restarts of the instance.
type SqliteStore struct {
	db            *sqlx.DB
	capacityBytes int
}

// OpenSqliteStore opens (or creates) the database file at path and applies the
// pending migrations. A capacity of 0 or less disables the quota.
func OpenSqliteStore(ctx context.Context, path string, capacityBytes int) (*SqliteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "could not open local cache database")
	}

	// a single writer keeps the capacity check and the write atomic
	db.SetMaxOpenConns(1)

	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not read local cache migrations")
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, migrations)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create local cache migration provider")
	}

	if _, err := provider.Up(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not migrate local cache database")
	}

	return &SqliteStore{
		db:            db,
		capacityBytes: capacityBytes,
	}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := s.db.GetContext(ctx, &value, "SELECT value FROM local_cache_entries WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "could not read local cache entry")
	}

	return value, true, nil
}

func (s *SqliteStore) Set(ctx context.Context, key string, value []byte) error {
	size := entrySize(key, value)
	if s.capacityBytes > 0 && size > s.capacityBytes {
		return ErrEntryTooLarge
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not start local cache transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if s.capacityBytes > 0 {
		var used int
		err := tx.GetContext(ctx, &used,
			"SELECT COALESCE(SUM(size), 0) FROM local_cache_entries WHERE key <> ?", key)
		if err != nil {
			return errors.Wrap(err, "could not compute local cache usage")
		}
		if used+size > s.capacityBytes {
			return ErrQuotaExceeded
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO local_cache_entries (key, value, size) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, size = excluded.size`,
		key, value, size)
	if err != nil {
		return errors.Wrap(err, "could not write local cache entry")
	}

	return errors.Wrap(tx.Commit(), "could not commit local cache entry")
}

func (s *SqliteStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM local_cache_entries WHERE key = ?", key)
	return errors.Wrap(err, "could not delete local cache entry")
}

func (s *SqliteStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}

	// substr counts characters, not bytes
	err := s.db.SelectContext(ctx, &keys,
		"SELECT key FROM local_cache_entries WHERE substr(key, 1, ?) = ?",
		utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return nil, errors.Wrap(err, "could not list local cache keys")
	}

	return keys, nil
}
