// Package store opens the on-device databases and hands out repositories.
// Structured records and photo blobs live in separate SQLite files under one
// data directory; each file carries its own embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/filex"
	"github.com/fieldlog/fieldlog/internal/store/blob"
	blobmigrations "github.com/fieldlog/fieldlog/internal/store/blob/migrations"
	"github.com/fieldlog/fieldlog/internal/store/records"
	recordmigrations "github.com/fieldlog/fieldlog/internal/store/records/migrations"
)

const (
	recordsFileName = "records.db"
	blobsFileName   = "blobs.db"
)

// Store bundles the opened repositories. Close releases both databases.
type Store struct {
	Records records.Repository
	Blobs   blob.Repository

	recordsDB *sql.DB
	blobsDB   *sql.DB
}

// Open ensures the data directory exists, opens both database files, and
// runs their migrations.
func Open(ctx context.Context, dir string) (*Store, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w: %w", common.ErrStorageUnavailable, err)
	}

	recordsDB, err := openDB(ctx, filepath.Join(abs, recordsFileName), recordmigrations.Migrations)
	if err != nil {
		return nil, err
	}

	blobsDB, err := openDB(ctx, filepath.Join(abs, blobsFileName), blobmigrations.Migrations)
	if err != nil {
		_ = recordsDB.Close()
		return nil, err
	}

	return &Store{
		Records:   records.NewSQLiteRepository(recordsDB),
		Blobs:     blob.NewSQLiteRepository(blobsDB),
		recordsDB: recordsDB,
		blobsDB:   blobsDB,
	}, nil
}

func openDB(ctx context.Context, path string, migrations fs.FS) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, common.ErrStorageUnavailable, err)
	}

	if err := runMigrations(ctx, db, migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w: %w", path, common.ErrStorageUnavailable, err)
	}

	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB, migrations fs.FS) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Close closes both underlying databases.
func (s *Store) Close() error {
	return errors.Join(s.recordsDB.Close(), s.blobsDB.Close())
}
