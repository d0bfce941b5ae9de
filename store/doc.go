// Package store opens database handles through bun and reads plain result
// sets from them.
//
// Connect chooses the driver from the DSN: postgres:// and postgresql:// URLs
// use pgx with the postgres dialect, everything else is a sqlite path opened
// with modernc.org/sqlite. Statements are formatted by bun, so "?" placeholders
// work against both.
//
// Opener implements scope.Opener by reserving one pooled connection per call.
package store
