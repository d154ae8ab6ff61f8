package models

import (
	"math"
	"strings"
	"time"

	id "campuscoffee/pkg/domain"
	dErrors "campuscoffee/pkg/domain-errors"
)

// Pos is a point of sale: a physical coffee outlet on campus.
//
// Invariants:
//   - ID is assigned by the store on insert and never changes
//   - Name is non-blank and unique across live records (case-sensitive)
//   - Type and Campus belong to their closed enumerations
//   - Street, HouseNumber and City are non-blank; PostalCode is positive
//   - CreatedAt is fixed at creation; UpdatedAt moves forward on every update
type Pos struct {
	ID          id.PosID
	Name        string
	Description string
	Type        id.PosType
	Campus      id.CampusType
	Street      string
	HouseNumber string
	PostalCode  int
	City        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePos is the caller-supplied part of a new record: everything except
// the id and timestamps.
type CreatePos struct {
	Name        string
	Description string
	Type        id.PosType
	Campus      id.CampusType
	Street      string
	HouseNumber string
	PostalCode  int
	City        string
}

// NewPos builds and validates a record that has not been persisted yet.
func NewPos(in CreatePos, now time.Time) (*Pos, error) {
	p := &Pos{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Campus:      in.Campus,
		Street:      in.Street,
		HouseNumber: in.HouseNumber,
		PostalCode:  in.PostalCode,
		City:        in.City,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the structural invariants and names every offending field.
func (p *Pos) Validate() error {
	var fields []string
	if isBlank(p.Name) {
		fields = append(fields, "name")
	}
	if !p.Type.IsValid() {
		fields = append(fields, "type")
	}
	if !p.Campus.IsValid() {
		fields = append(fields, "campus")
	}
	if isBlank(p.Street) {
		fields = append(fields, "street")
	}
	if isBlank(p.HouseNumber) {
		fields = append(fields, "houseNumber")
	}
	if p.PostalCode <= 0 || p.PostalCode > math.MaxInt32 {
		fields = append(fields, "postalCode")
	}
	if isBlank(p.City) {
		fields = append(fields, "city")
	}
	if len(fields) > 0 {
		return dErrors.NewFields(dErrors.CodeValidation,
			"invalid pos: "+strings.Join(fields, ", "), fields...)
	}
	return nil
}

// Clone returns a copy that can be modified without touching p.
func (p *Pos) Clone() *Pos {
	c := *p
	return &c
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
