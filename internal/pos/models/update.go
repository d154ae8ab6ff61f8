package models

import id "campuscoffee/pkg/domain"

// PosUpdate is a sparse field update: nil fields are left unchanged.
type PosUpdate struct {
	Name        *string
	Description *string
	Type        *id.PosType
	Campus      *id.CampusType
	Street      *string
	HouseNumber *string
	PostalCode  *int
	City        *string
}

// ApplyTo overwrites the fields present in u. It does not validate or touch
// timestamps; the service owns both.
func (u PosUpdate) ApplyTo(p *Pos) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Campus != nil {
		p.Campus = *u.Campus
	}
	if u.Street != nil {
		p.Street = *u.Street
	}
	if u.HouseNumber != nil {
		p.HouseNumber = *u.HouseNumber
	}
	if u.PostalCode != nil {
		p.PostalCode = *u.PostalCode
	}
	if u.City != nil {
		p.City = *u.City
	}
}

// RenamesFrom reports whether applying u would change the name of p.
func (u PosUpdate) RenamesFrom(p *Pos) bool {
	return u.Name != nil && *u.Name != p.Name
}
