// Package schemas provides the embedded SQL migrations for the MySQL history backend.
package schemas

import "embed"

// Migrations holds migrations/NNN_description.sql files, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
