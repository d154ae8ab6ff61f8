// Package store persists POS records. Stores are pure I/O: they enforce only
// identity and the name uniqueness constraint and report facts through
// sentinel errors; validation and merge rules live in the service.
package store

import "campuscoffee/pkg/platform/sentinel"

// Re-exported so callers of this package can match store outcomes without an
// extra import.
var (
	ErrNotFound    = sentinel.ErrNotFound
	ErrConflict    = sentinel.ErrConflict
	ErrUnavailable = sentinel.ErrUnavailable
)
