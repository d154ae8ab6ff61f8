package domain

import (
	"strconv"
	"strings"

	dErrors "campuscoffee/pkg/domain-errors"
)

// PosID identifies a point of sale. Values are assigned by the store and are
// strictly positive; the zero value means "not yet persisted".
type PosID int64

// ParsePosID parses a POS identifier from a path segment or other external input.
//
// Errors: returns CodeInvalidInput when the value is empty, not a base-10
// integer, or not positive.
func ParsePosID(s string) (PosID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "pos id cannot be empty")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "pos id must be an integer")
	}
	if n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "pos id must be positive")
	}
	return PosID(n), nil
}

// IsNil reports whether the id has not been assigned.
func (id PosID) IsNil() bool {
	return id == 0
}

func (id PosID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
