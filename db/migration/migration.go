package migration

import "embed"

// Files holds the schema migrations, shared by postgres and sqlite.
//
//go:embed *.sql
var Files embed.FS
