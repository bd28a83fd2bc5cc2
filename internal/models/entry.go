package models

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Layouts for the calendar fields on an entry. Both are fixed-width, so
// lexicographic comparison of the stored strings is chronological.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// InspectionEntry is one dated inspection record with notes and photos.
// Entries are immutable after creation and are exclusively owned by their
// project's timeline; they have no store of their own.
type InspectionEntry struct {
	// ID is derived from the creation timestamp, unique within a project.
	ID string `json:"id"`

	// Date (YYYY-MM-DD) and Time (HH:MM) locate the inspection on the timeline.
	Date string `json:"date"`
	Time string `json:"time"`

	// Notes is free text; empty notes are stored as "", never omitted.
	Notes string `json:"notes"`

	// PhotoKeys are blob-store keys, one per attached photo, in attachment order.
	PhotoKeys []string `json:"photoKeys"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PhotoFile is a raw photo attachment as collected from the caller.
type PhotoFile struct {
	Name string
	Data []byte
}

// NewEntryID derives an entry ID from a high-resolution timestamp.
// Nanosecond resolution makes collisions within a single-user flow
// practically impossible; they are not otherwise defended against.
func NewEntryID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10)
}

// PhotoKey builds the blob-store key for one attached photo. The key is
// namespaced by project, entry, and photo index, which makes it globally
// unique and human-debuggable; the blob store treats it as opaque.
func PhotoKey(projectID, entryID string, index int) string {
	return fmt.Sprintf("%s/inspections/%s/photo-%d", projectID, entryID, index)
}

// SortTimeline orders entries by (Date, Time) descending, newest first.
// The sort is stable: entries with equal (Date, Time) keep their original
// relative order.
func SortTimeline(entries []InspectionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].Time > entries[j].Time
	})
}
