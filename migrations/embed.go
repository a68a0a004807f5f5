// Package migrations embeds the SQL schema so the migrator, the schema command
// and the integration tests all apply the same files.
package migrations

import "embed"

// FS holds the golang-migrate up/down files
//
//go:embed *.sql
var FS embed.FS

// Policies holds the row-level-security statements printed by migrate schema -policies
//
//go:embed policies/*.sql
var Policies embed.FS
