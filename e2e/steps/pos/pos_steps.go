package pos

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the e2e context the POS steps need.
type TestContext interface {
	GET(ctx context.Context, path string) error
	POST(ctx context.Context, path string, body any) error
	PUT(ctx context.Context, path string, body any) error
	LastStatus() int
	DecodeLast(v any) error
	ExpectStatus(status int) error
}

// posDTO mirrors the API wire shape.
type posDTO struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Campus      string `json:"campus"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  int    `json:"postalCode"`
	City        string `json:"city"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// sameContent compares everything except server-assigned fields.
func (p posDTO) sameContent(o posDTO) bool {
	return p.Name == o.Name &&
		p.Description == o.Description &&
		p.Type == o.Type &&
		p.Campus == o.Campus &&
		p.Street == o.Street &&
		p.HouseNumber == o.HouseNumber &&
		p.PostalCode == o.PostalCode &&
		p.City == o.City
}

// RegisterSteps registers POS step definitions. State lives per scenario.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &posSteps{tc: tc}

	ctx.Step(`^an empty POS list$`, steps.anEmptyPosList)
	ctx.Step(`^the following POS exist:$`, steps.insertPos)
	ctx.Step(`^I insert POS with the following elements$`, steps.insertPos)
	ctx.Step(`^I update the description of "([^"]*)" to "([^"]*)"$`, steps.updateDescription)
	ctx.Step(`^I retrieve the POS named "([^"]*)"$`, steps.retrieveByName)
	ctx.Step(`^I insert a POS named "([^"]*)" again$`, steps.insertDuplicate)

	ctx.Step(`^the POS list should contain the same elements in the same order$`, steps.listMatchesCreated)
	ctx.Step(`^the POS "([^"]*)" should have description "([^"]*)"$`, steps.posShouldHaveDescription)
	ctx.Step(`^the retrieved POS should be on campus "([^"]*)"$`, steps.retrievedOnCampus)
	ctx.Step(`^the request should be rejected with status (\d+)$`, steps.rejectedWithStatus)
	ctx.Step(`^the updated POS should have a later update time$`, steps.updatedLater)
}

type posSteps struct {
	tc        TestContext
	created   []posDTO
	updated   *posDTO
	previous  *posDTO
	retrieved *posDTO
}

func (s *posSteps) list(ctx context.Context) ([]posDTO, error) {
	if err := s.tc.GET(ctx, "/api/pos"); err != nil {
		return nil, err
	}
	if err := s.tc.ExpectStatus(http.StatusOK); err != nil {
		return nil, err
	}
	var out []posDTO
	return out, s.tc.DecodeLast(&out)
}

func (s *posSteps) anEmptyPosList(ctx context.Context) error {
	all, err := s.list(ctx)
	if err != nil {
		return err
	}
	if len(all) != 0 {
		return fmt.Errorf("expected empty POS list, got %d entries", len(all))
	}
	return nil
}

func (s *posSteps) insertPos(ctx context.Context, table *godog.Table) error {
	rows, err := tableToPos(table)
	if err != nil {
		return err
	}
	for _, p := range rows {
		if err := s.tc.POST(ctx, "/api/pos", p); err != nil {
			return err
		}
		if err := s.tc.ExpectStatus(http.StatusCreated); err != nil {
			return err
		}
		var created posDTO
		if err := s.tc.DecodeLast(&created); err != nil {
			return err
		}
		s.created = append(s.created, created)
	}
	return nil
}

func (s *posSteps) updateDescription(ctx context.Context, name, description string) error {
	target, err := s.findCreated(name)
	if err != nil {
		return err
	}
	s.previous = &target
	body := target
	body.Description = description
	if err := s.tc.PUT(ctx, "/api/pos/"+strconv.FormatInt(*target.ID, 10), body); err != nil {
		return err
	}
	if err := s.tc.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	var updated posDTO
	if err := s.tc.DecodeLast(&updated); err != nil {
		return err
	}
	s.updated = &updated
	return nil
}

func (s *posSteps) retrieveByName(ctx context.Context, name string) error {
	if err := s.tc.GET(ctx, "/api/pos/filter?name="+url.QueryEscape(name)); err != nil {
		return err
	}
	if err := s.tc.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	var p posDTO
	if err := s.tc.DecodeLast(&p); err != nil {
		return err
	}
	s.retrieved = &p
	return nil
}

func (s *posSteps) insertDuplicate(ctx context.Context, name string) error {
	existing, err := s.findCreated(name)
	if err != nil {
		return err
	}
	existing.ID = nil
	existing.CreatedAt, existing.UpdatedAt = "", ""
	return s.tc.POST(ctx, "/api/pos", existing)
}

func (s *posSteps) listMatchesCreated(ctx context.Context) error {
	all, err := s.list(ctx)
	if err != nil {
		return err
	}
	if len(all) != len(s.created) {
		return fmt.Errorf("expected %d POS, got %d", len(s.created), len(all))
	}
	for i := range all {
		if !all[i].sameContent(s.created[i]) {
			return fmt.Errorf("position %d: expected %q, got %q", i, s.created[i].Name, all[i].Name)
		}
	}
	return nil
}

func (s *posSteps) posShouldHaveDescription(ctx context.Context, name, description string) error {
	all, err := s.list(ctx)
	if err != nil {
		return err
	}
	for _, p := range all {
		if p.Name == name {
			if p.Description != description {
				return fmt.Errorf("expected description %q, got %q", description, p.Description)
			}
			return nil
		}
	}
	return fmt.Errorf("POS not found: %s", name)
}

func (s *posSteps) retrievedOnCampus(campus string) error {
	if s.retrieved == nil {
		return fmt.Errorf("no POS retrieved")
	}
	if s.retrieved.Campus != campus {
		return fmt.Errorf("expected campus %q, got %q", campus, s.retrieved.Campus)
	}
	return nil
}

func (s *posSteps) rejectedWithStatus(status int) error {
	return s.tc.ExpectStatus(status)
}

func (s *posSteps) updatedLater() error {
	if s.updated == nil || s.previous == nil {
		return fmt.Errorf("no update recorded")
	}
	before, err := time.Parse(time.RFC3339Nano, s.previous.UpdatedAt)
	if err != nil {
		return err
	}
	after, err := time.Parse(time.RFC3339Nano, s.updated.UpdatedAt)
	if err != nil {
		return err
	}
	if !after.After(before) {
		return fmt.Errorf("updatedAt did not advance: %s -> %s", s.previous.UpdatedAt, s.updated.UpdatedAt)
	}
	if s.updated.CreatedAt != s.previous.CreatedAt {
		return fmt.Errorf("createdAt changed: %s -> %s", s.previous.CreatedAt, s.updated.CreatedAt)
	}
	return nil
}

func (s *posSteps) findCreated(name string) (posDTO, error) {
	for _, p := range s.created {
		if p.Name == name {
			return p, nil
		}
	}
	return posDTO{}, fmt.Errorf("POS not found: %s", name)
}

// tableToPos maps a data table with a header row onto DTOs.
func tableToPos(table *godog.Table) ([]posDTO, error) {
	if len(table.Rows) < 2 {
		return nil, fmt.Errorf("table needs a header row and at least one data row")
	}
	header := make([]string, len(table.Rows[0].Cells))
	for i, c := range table.Rows[0].Cells {
		header[i] = c.Value
	}
	out := make([]posDTO, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		var p posDTO
		for i, c := range row.Cells {
			switch header[i] {
			case "name":
				p.Name = c.Value
			case "description":
				p.Description = c.Value
			case "type":
				p.Type = c.Value
			case "campus":
				p.Campus = c.Value
			case "street":
				p.Street = c.Value
			case "houseNumber":
				p.HouseNumber = c.Value
			case "postalCode":
				n, err := strconv.Atoi(c.Value)
				if err != nil {
					return nil, fmt.Errorf("postalCode %q: %w", c.Value, err)
				}
				p.PostalCode = n
			case "city":
				p.City = c.Value
			default:
				return nil, fmt.Errorf("unknown column %q", header[i])
			}
		}
		out = append(out, p)
	}
	return out, nil
}
