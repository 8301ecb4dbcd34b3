// Package migrations embeds the sqlite schema for the client-side cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
