package handler

import (
	"campuscoffee/internal/pos/models"
	id "campuscoffee/pkg/domain"
	dErrors "campuscoffee/pkg/domain-errors"
)

// PosRequest is the JSON body of POST and PUT /api/pos. Every field is a
// pointer so PUT can tell an omitted field from an empty one. Clients may echo
// createdAt and updatedAt back; the decoder drops them.
type PosRequest struct {
	ID          *int64  `json:"id,omitempty"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Campus      *string `json:"campus"`
	Street      *string `json:"street"`
	HouseNumber *string `json:"houseNumber"`
	PostalCode  *int    `json:"postalCode"`
	City        *string `json:"city"`
}

// ToCreate converts the body into create input. Enum strings are parsed here;
// missing required fields are left for the model to report.
func (r *PosRequest) ToCreate() (models.CreatePos, error) {
	if r.ID != nil {
		return models.CreatePos{}, dErrors.NewFields(dErrors.CodeBadRequest, "id is assigned by the server", "id")
	}
	in := models.CreatePos{
		Name:        deref(r.Name),
		Description: deref(r.Description),
		Street:      deref(r.Street),
		HouseNumber: deref(r.HouseNumber),
		City:        deref(r.City),
	}
	if r.PostalCode != nil {
		in.PostalCode = *r.PostalCode
	}
	if r.Type != nil {
		t, err := id.ParsePosType(*r.Type)
		if err != nil {
			return models.CreatePos{}, err
		}
		in.Type = t
	}
	if r.Campus != nil {
		c, err := id.ParseCampusType(*r.Campus)
		if err != nil {
			return models.CreatePos{}, err
		}
		in.Campus = c
	}
	return in, nil
}

// ToUpdate converts the body into a sparse update for the record at pathID.
// A body id, when present, must agree with the path. A JSON null decodes like
// an absent field and keeps the stored value.
func (r *PosRequest) ToUpdate(pathID id.PosID) (models.PosUpdate, error) {
	if r.ID != nil && id.PosID(*r.ID) != pathID {
		return models.PosUpdate{}, dErrors.NewFields(dErrors.CodeBadRequest,
			"id in body does not match id in path", "id")
	}
	u := models.PosUpdate{
		Name:        r.Name,
		Description: r.Description,
		Street:      r.Street,
		HouseNumber: r.HouseNumber,
		PostalCode:  r.PostalCode,
		City:        r.City,
	}
	if r.Type != nil {
		t, err := id.ParsePosType(*r.Type)
		if err != nil {
			return models.PosUpdate{}, err
		}
		u.Type = &t
	}
	if r.Campus != nil {
		c, err := id.ParseCampusType(*r.Campus)
		if err != nil {
			return models.PosUpdate{}, err
		}
		u.Campus = &c
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
