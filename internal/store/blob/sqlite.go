package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/dbx"
)

// SQLiteRepository implements Repository on a photos(key, data) table.
// It holds the *sql.DB itself so batch writes can open their own
// transactions.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Put stores data under key, silently replacing any previous blob.
func (r *SQLiteRepository) Put(ctx context.Context, key string, data []byte) error {
	return put(ctx, r.db, key, data)
}

// PutAll writes the whole batch inside one transaction, so a failing item
// rolls back the ones already written.
func (r *SQLiteRepository) PutAll(ctx context.Context, items []Item) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, item := range items {
			if err := put(ctx, tx, item.Key, item.Data); err != nil {
				return err
			}
		}
		return nil
	})
}

func put(ctx context.Context, db dbx.DBTX, key string, data []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO photos (key, data) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data
	`, key, data)
	if err != nil {
		return fmt.Errorf("put blob %s: %w: %w", key, common.ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns the blob stored under key. A missing key is (nil, false, nil),
// never an error.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM photos WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob %s: %w: %w", key, common.ErrStorageUnavailable, err)
	}
	return data, true, nil
}
