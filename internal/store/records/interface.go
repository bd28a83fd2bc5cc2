// Package records persists the structured collections: the project metadata
// map and the per-project inspection timelines. Each collection is stored as
// a single JSON document and is always loaded and saved wholesale, so callers
// follow a read-mutate-write discipline with no partial-collection updates.
package records

import (
	"context"

	"github.com/fieldlog/fieldlog/internal/models"
)

// Repository is the structured-record store.
//
// Load methods return an empty map when the underlying document is absent or
// unparsable — corruption is treated as "no data", never as a fatal error.
// Save methods replace the whole document in one statement.
//
// Scalar methods store small text values (e.g. the passcode digest) beside
// the collection documents; GetScalar returns "" when the key is absent.
type Repository interface {
	LoadProjects(ctx context.Context) (map[string]models.ProjectMeta, error)
	SaveProjects(ctx context.Context, projects map[string]models.ProjectMeta) error

	LoadInspections(ctx context.Context) (map[string][]models.InspectionEntry, error)
	SaveInspections(ctx context.Context, inspections map[string][]models.InspectionEntry) error

	GetScalar(ctx context.Context, key string) (string, error)
	SetScalar(ctx context.Context, key, value string) error
	DeleteScalar(ctx context.Context, key string) error
}
