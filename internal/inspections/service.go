// Package inspections is the domain layer over the stores: it upserts
// project metadata, builds inspection entries (persisting their photos
// first), and answers timeline queries.
package inspections

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fieldlog/fieldlog/internal/common"
	"github.com/fieldlog/fieldlog/internal/logging"
	"github.com/fieldlog/fieldlog/internal/models"
	"github.com/fieldlog/fieldlog/internal/store/blob"
	"github.com/fieldlog/fieldlog/internal/store/records"
)

// Service exposes the operations the presentation layer calls. All state is
// injected; the service holds no data of its own beyond its store handles.
type Service struct {
	records records.Repository
	blobs   blob.Repository
	log     logging.Logger

	// now is a test seam for the clock.
	now func() time.Time
}

// NewService constructs a Service bound to the given repositories.
func NewService(recordsRepo records.Repository, blobsRepo blob.Repository, log logging.Logger) *Service {
	return &Service{
		records: recordsRepo,
		blobs:   blobsRepo,
		log:     log,
		now:     time.Now,
	}
}

// SaveProject creates or updates the metadata for a project ID. A second
// save with the same ID mutates in place: CreatedAt is preserved, UpdatedAt
// refreshed. Projects are never deleted.
func (s *Service) SaveProject(ctx context.Context, id, address, scope string) (models.ProjectMeta, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.ProjectMeta{}, common.NewValidationError("Enter a Project ID")
	}

	projects, err := s.records.LoadProjects(ctx)
	if err != nil {
		return models.ProjectMeta{}, err
	}

	now := s.now().UTC()
	meta, exists := projects[id]
	if exists {
		meta.Address = address
		meta.Scope = scope
		meta.UpdatedAt = now
	} else {
		meta = models.ProjectMeta{
			ID:        id,
			Address:   address,
			Scope:     scope,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	projects[id] = meta

	if err := s.records.SaveProjects(ctx, projects); err != nil {
		return models.ProjectMeta{}, err
	}

	s.log.Info(ctx, "project saved", "project", id, "new", !exists)
	return meta, nil
}

// Project returns the metadata for a project ID, or common.ErrNotFound.
// A project ID may still have inspections without metadata; callers that
// only need the timeline should not treat this as fatal.
func (s *Service) Project(ctx context.Context, id string) (models.ProjectMeta, error) {
	projects, err := s.records.LoadProjects(ctx)
	if err != nil {
		return models.ProjectMeta{}, err
	}

	meta, ok := projects[strings.TrimSpace(id)]
	if !ok {
		return models.ProjectMeta{}, fmt.Errorf("project %s: %w", id, common.ErrNotFound)
	}
	return meta, nil
}

// ListProjects returns all project metadata, most recently updated first.
func (s *Service) ListProjects(ctx context.Context) ([]models.ProjectMeta, error) {
	projects, err := s.records.LoadProjects(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.ProjectMeta, 0, len(projects))
	for _, meta := range projects {
		result = append(result, meta)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// CreateEntry builds a new inspection entry and inserts it into the
// project's timeline. Photo blobs are committed as one batch, in attachment
// order, before the entry record is touched: if any write fails the batch
// rolls back and no entry appears in the records store, so a listed entry
// never references an unwritten blob.
func (s *Service) CreateEntry(ctx context.Context, projectID, date, timeOfDay, notes string, photos []models.PhotoFile) (models.InspectionEntry, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return models.InspectionEntry{}, common.NewValidationError("Enter a Project ID")
	}
	if err := validateDate(date); err != nil {
		return models.InspectionEntry{}, err
	}
	if err := validateTime(timeOfDay); err != nil {
		return models.InspectionEntry{}, err
	}

	now := s.now().UTC()
	entryID := models.NewEntryID(now)

	photoKeys := make([]string, 0, len(photos))
	items := make([]blob.Item, 0, len(photos))
	for i, photo := range photos {
		key := models.PhotoKey(projectID, entryID, i)
		photoKeys = append(photoKeys, key)
		items = append(items, blob.Item{Key: key, Data: photo.Data})
	}
	if len(items) > 0 {
		if err := s.blobs.PutAll(ctx, items); err != nil {
			s.log.Error(ctx, "photo batch write failed, entry aborted",
				"project", projectID, "entry", entryID, "photos", len(items), "error", err)
			return models.InspectionEntry{}, fmt.Errorf("store photos: %w", err)
		}
	}

	entry := models.InspectionEntry{
		ID:        entryID,
		Date:      date,
		Time:      timeOfDay,
		Notes:     strings.TrimSpace(notes),
		PhotoKeys: photoKeys,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.appendAndSort(ctx, projectID, entry); err != nil {
		return models.InspectionEntry{}, err
	}

	s.log.Info(ctx, "entry saved", "project", projectID, "entry", entryID, "photos", len(photoKeys))
	return entry, nil
}

// appendAndSort inserts the entry into the project's list and re-sorts the
// whole list by (date, time) descending. The stable sort keeps the original
// relative order of entries with equal keys.
func (s *Service) appendAndSort(ctx context.Context, projectID string, entry models.InspectionEntry) error {
	inspections, err := s.records.LoadInspections(ctx)
	if err != nil {
		return err
	}

	list := append(inspections[projectID], entry)
	models.SortTimeline(list)
	inspections[projectID] = list

	return s.records.SaveInspections(ctx, inspections)
}

// QueryTimeline returns the project's entries newest first, or, when
// filterDate is non-empty, only the entries whose date equals it exactly.
// Unknown projects and zero-match filters yield an empty, non-nil slice.
func (s *Service) QueryTimeline(ctx context.Context, projectID, filterDate string) ([]models.InspectionEntry, error) {
	inspections, err := s.records.LoadInspections(ctx)
	if err != nil {
		return nil, err
	}

	list := append([]models.InspectionEntry(nil), inspections[projectID]...)
	models.SortTimeline(list)

	result := make([]models.InspectionEntry, 0, len(list))
	for _, entry := range list {
		if filterDate != "" && entry.Date != filterDate {
			continue
		}
		result = append(result, entry)
	}

	s.log.Debug(ctx, "timeline query",
		"project", projectID, "filter", filterDate, "entries", len(result))
	return result, nil
}

func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return common.NewValidationError("Enter a date")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return common.NewValidationError("Date must be YYYY-MM-DD")
	}
	return nil
}

func validateTime(timeOfDay string) error {
	if strings.TrimSpace(timeOfDay) == "" {
		return common.NewValidationError("Enter a time")
	}
	if _, err := time.Parse(models.TimeLayout, timeOfDay); err != nil {
		return common.NewValidationError("Time must be HH:MM")
	}
	return nil
}
