package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldlog/fieldlog/internal/models"
)

// AddEntry prompts for the inspection form fields and submits a new entry
// for the current project. Photos are read from local files; all photo blobs
// are persisted before the entry appears on the timeline.
func (a *App) AddEntry(ctx context.Context) error {
	if !a.requireUnlocked() {
		return nil
	}

	projectID := a.currentProject
	if projectID == "" {
		id, err := getSimpleText(a.reader, "Project ID", os.Stdout)
		if err != nil {
			return err
		}
		projectID = id
	}

	date, err := getSimpleText(a.reader, "Date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return err
	}
	timeOfDay, err := getSimpleText(a.reader, "Time (HH:MM)", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := getMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		return err
	}
	photoLine, err := getSimpleText(a.reader, "Photo files (space-separated paths, empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	photos, err := readPhotoFiles(photoLine)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	entry, err := a.index.CreateEntry(ctx, projectID, date, timeOfDay, notes, photos)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Saved entry %s (%d photos).", entry.ID, len(entry.PhotoKeys)))
	return nil
}

// readPhotoFiles loads every path in the space-separated line. A failed read
// aborts the whole form, before anything has been persisted.
func readPhotoFiles(line string) ([]models.PhotoFile, error) {
	fields := strings.Fields(line)
	photos := make([]models.PhotoFile, 0, len(fields))
	for _, path := range fields {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read photo %s: %w", path, err)
		}
		photos = append(photos, models.PhotoFile{Name: filepath.Base(path), Data: data})
	}
	return photos, nil
}
