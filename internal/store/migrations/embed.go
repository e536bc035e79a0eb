package migrations

import "embed"

// FS holds the ordered golang-migrate files for the profile store.
//
//go:embed *.sql
var FS embed.FS
