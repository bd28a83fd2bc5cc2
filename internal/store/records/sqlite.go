package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/dbx"
	"github.com/fieldlog/fieldlog/internal/models"
)

// Document keys inside the records database.
const (
	docProjects    = "projects"
	docInspections = "inspections"
)

// SQLiteRepository implements Repository on a documents(key, value) table,
// using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// loadDocument reads one document row. Returns (nil, nil) when the row is
// absent; the caller decides what "no data" means for its collection.
func (r *SQLiteRepository) loadDocument(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w: %w", key, common.ErrStorageUnavailable, err)
	}
	return value, nil
}

func (r *SQLiteRepository) saveDocument(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("save document %s: %w: %w", key, common.ErrStorageUnavailable, err)
	}
	return nil
}

// LoadProjects returns the full project metadata map. An absent or
// unparsable document yields an empty map.
func (r *SQLiteRepository) LoadProjects(ctx context.Context) (map[string]models.ProjectMeta, error) {
	data, err := r.loadDocument(ctx, docProjects)
	if err != nil {
		return nil, err
	}

	result := make(map[string]models.ProjectMeta)
	if len(data) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		// corrupted payload: start empty rather than fail
		return make(map[string]models.ProjectMeta), nil
	}
	return result, nil
}

// SaveProjects replaces the project metadata document wholesale.
func (r *SQLiteRepository) SaveProjects(ctx context.Context, projects map[string]models.ProjectMeta) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	return r.saveDocument(ctx, docProjects, data)
}

// LoadInspections returns the full map of project ID to timeline. An absent
// or unparsable document yields an empty map.
func (r *SQLiteRepository) LoadInspections(ctx context.Context) (map[string][]models.InspectionEntry, error) {
	data, err := r.loadDocument(ctx, docInspections)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]models.InspectionEntry)
	if len(data) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return make(map[string][]models.InspectionEntry), nil
	}
	return result, nil
}

// SaveInspections replaces the inspections document wholesale.
func (r *SQLiteRepository) SaveInspections(ctx context.Context, inspections map[string][]models.InspectionEntry) error {
	data, err := json.Marshal(inspections)
	if err != nil {
		return fmt.Errorf("marshal inspections: %w", err)
	}
	return r.saveDocument(ctx, docInspections, data)
}

// GetScalar returns the text value stored under key, or "" when absent.
func (r *SQLiteRepository) GetScalar(ctx context.Context, key string) (string, error) {
	data, err := r.loadDocument(ctx, key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetScalar stores a small text value under key, replacing any previous one.
func (r *SQLiteRepository) SetScalar(ctx context.Context, key, value string) error {
	return r.saveDocument(ctx, key, []byte(value))
}

// DeleteScalar removes the value stored under key. Deleting an absent key is
// not an error.
func (r *SQLiteRepository) DeleteScalar(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete document %s: %w: %w", key, common.ErrStorageUnavailable, err)
	}
	return nil
}
