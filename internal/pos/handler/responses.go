package handler

import (
	"time"

	"campuscoffee/internal/pos/models"
)

// PosResponse is the wire shape of a POS record.
type PosResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Campus      string `json:"campus"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  int    `json:"postalCode"`
	City        string `json:"city"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toPosResponse(p *models.Pos) *PosResponse {
	return &PosResponse{
		ID:          int64(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type.String(),
		Campus:      p.Campus.String(),
		Street:      p.Street,
		HouseNumber: p.HouseNumber,
		PostalCode:  p.PostalCode,
		City:        p.City,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toPosResponses(all []*models.Pos) []*PosResponse {
	out := make([]*PosResponse, 0, len(all))
	for _, p := range all {
		out = append(out, toPosResponse(p))
	}
	return out
}
