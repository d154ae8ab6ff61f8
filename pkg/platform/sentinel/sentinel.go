package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so the service can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a storage-level uniqueness constraint rejected the write
//   - ErrUnavailable: the store could not be reached or timed out
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
