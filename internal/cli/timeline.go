package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Timeline prints the current project's entries, newest first, optionally
// filtered to one exact date. An empty timeline is a normal state, not an
// error.
func (a *App) Timeline(ctx context.Context, filterDate string) error {
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

	entries, err := a.index.QueryTimeline(ctx, projectID, filterDate)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if len(entries) == 0 {
		if filterDate != "" {
			printlnFn(fmt.Sprintf("No entries on %s.", filterDate))
		} else {
			printlnFn("No entries yet. Use 'addentry'.")
		}
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s %s  [%s]", e.Date, e.Time, e.ID)
		if len(e.PhotoKeys) > 0 {
			line += fmt.Sprintf("  %d photo(s)", len(e.PhotoKeys))
		}
		printlnFn(line)
		if e.Notes != "" {
			printlnFn("    " + strings.ReplaceAll(e.Notes, "\n", "\n    "))
		}
		for _, key := range e.PhotoKeys {
			printlnFn("    photo: " + key)
		}
	}
	return nil
}
