package domain

import dErrors "campuscoffee/pkg/domain-errors"

// CampusType identifies the campus an outlet is located on.
// Invariant: the value must be one of the supported campuses.
type CampusType string

const (
	CampusAltstadt CampusType = "ALTSTADT"
	CampusBergheim CampusType = "BERGHEIM"
	CampusINF      CampusType = "INF"
)

var validCampuses = map[CampusType]bool{
	CampusAltstadt: true,
	CampusBergheim: true,
	CampusINF:      true,
}

// ParseCampusType constructs a CampusType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseCampusType(s string) (CampusType, error) {
	if s == "" {
		return "", dErrors.NewFields(dErrors.CodeInvalidInput, "campus cannot be empty", "campus")
	}
	c := CampusType(s)
	if !c.IsValid() {
		return "", dErrors.NewFields(dErrors.CodeInvalidInput, "unknown campus "+s, "campus")
	}
	return c, nil
}

func (c CampusType) IsValid() bool {
	return validCampuses[c]
}

func (c CampusType) String() string {
	return string(c)
}
