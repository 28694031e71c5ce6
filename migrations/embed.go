// Package migrations bundles the SQL schema migrations into the binary.
package migrations

import "embed"

// FS holds one sub-directory of NNN_name.sql files per backend.
//
//go:embed sqlite/*.sql
var FS embed.FS
