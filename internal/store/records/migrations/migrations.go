// Package migrations embeds the goose DDL for the records database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
