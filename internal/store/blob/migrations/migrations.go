// Package migrations embeds the goose DDL for the photo blob database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
