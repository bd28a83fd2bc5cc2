// Package models defines the data model for fieldlog: project metadata and
// the inspection entries that make up a project's timeline.
package models

import "time"

// ProjectMeta describes one inspection project. The ID is user-chosen and is
// the primary key for both the metadata record and the project's entry list.
type ProjectMeta struct {
	// ID is the user-supplied project identifier, unique across the store.
	ID string `json:"id"`

	// Address and Scope are free-text fields and may be empty.
	Address string `json:"address"`
	Scope   string `json:"scope"`

	// CreatedAt is fixed at first save; UpdatedAt is refreshed on every save.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
