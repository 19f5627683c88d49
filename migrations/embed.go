package migrations

import "embed"

// Files holds the forward-only schema migrations applied on every open.
//
//go:embed *.sql
var Files embed.FS
