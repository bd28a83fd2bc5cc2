package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fieldlog/fieldlog/internal/common"
)

// AddProject prompts for project fields and upserts the metadata record.
// Saving an existing ID updates it in place.
func (a *App) AddProject(ctx context.Context) error {
	if !a.requireUnlocked() {
		return nil
	}

	id, err := getSimpleText(a.reader, "Project ID", os.Stdout)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.reader, "Address", os.Stdout)
	if err != nil {
		return err
	}
	scope, err := getSimpleText(a.reader, "Scope of work", os.Stdout)
	if err != nil {
		return err
	}

	meta, err := a.index.SaveProject(ctx, id, address, scope)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	a.currentProject = meta.ID
	printlnFn(fmt.Sprintf("Project %s saved.", meta.ID))
	return nil
}

// ListProjects prints all known projects, most recently updated first.
func (a *App) ListProjects(ctx context.Context) error {
	if !a.requireUnlocked() {
		return nil
	}

	all, err := a.index.ListProjects(ctx)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if len(all) == 0 {
		printlnFn("No projects yet. Use 'addproject'.")
		return nil
	}

	for _, meta := range all {
		printlnFn(fmt.Sprintf("%s  %s  (updated %s)",
			meta.ID, meta.Address, meta.UpdatedAt.Format("2006-01-02 15:04")))
	}
	return nil
}

// OpenProject begins an inspection session for a project ID. Metadata may be
// absent for the ID; its inspections, if any, are still viewable.
func (a *App) OpenProject(ctx context.Context, id string) error {
	if !a.requireUnlocked() {
		return nil
	}

	id = strings.TrimSpace(id)
	if id == "" {
		printlnFn("Enter a Project ID")
		return nil
	}

	if _, err := a.index.Project(ctx, id); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			printlnFn(err.Error())
			return err
		}
		printlnFn(fmt.Sprintf("No project record for %s; its timeline is still viewable.", id))
	}

	a.currentProject = id
	printlnFn("Opened " + id)
	return nil
}
