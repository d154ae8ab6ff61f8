package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"campuscoffee/internal/pos/metrics"
	"campuscoffee/internal/pos/models"
	"campuscoffee/internal/pos/store"
	id "campuscoffee/pkg/domain"
	dErrors "campuscoffee/pkg/domain-errors"
	"campuscoffee/pkg/testutil"
)

// =============================================================================
// POS Service Test Suite
// =============================================================================
// Runs the service against the in-memory store so the business rules are
// exercised end to end without a database.

type ServiceSuite struct {
	suite.Suite
	store   *store.InMemory
	metrics *metrics.Metrics
	service *Service
	clock   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.store, WithMetrics(s.metrics))
	s.clock = time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
}

// ctx returns a context whose clock reads the suite clock, then advances it.
func (s *ServiceSuite) ctx() context.Context {
	ctx := testutil.ContextAt(s.clock)
	s.clock = s.clock.Add(time.Minute)
	return ctx
}

func validInput(name string) models.CreatePos {
	return models.CreatePos{
		Name:        name,
		Description: "Specialty coffee",
		Type:        id.PosTypeCafe,
		Campus:      id.CampusAltstadt,
		Street:      "Hauptstraße",
		HouseNumber: "21a",
		PostalCode:  69117,
		City:        "Heidelberg",
	}
}

func strPtr(v string) *string { return &v }

// =============================================================================
// Create
// =============================================================================

func (s *ServiceSuite) TestCreate() {
	s.Run("assigns id and timestamps", func() {
		now := s.clock
		p, err := s.service.Create(s.ctx(), validInput("Schmelzpunkt"))
		s.Require().NoError(err)
		s.Positive(int64(p.ID))
		s.Equal(now, p.CreatedAt)
		s.Equal(p.CreatedAt, p.UpdatedAt)
		s.Equal("21a", p.HouseNumber)
	})

	s.Run("created record is retrievable", func() {
		p, err := s.service.Create(s.ctx(), validInput("Café Botanik"))
		s.Require().NoError(err)

		got, err := s.service.GetByID(s.ctx(), p.ID)
		s.Require().NoError(err)
		s.Equal(p, got)
	})

	s.Run("duplicate name is a conflict", func() {
		_, err := s.service.Create(s.ctx(), validInput("Taken"))
		s.Require().NoError(err)

		_, err = s.service.Create(s.ctx(), validInput("Taken"))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Contains(err.Error(), "duplicate name")
		s.Equal(1.0, promtest.ToFloat64(s.metrics.Conflicts.WithLabelValues("create")))
	})

	s.Run("invalid input names every offending field", func() {
		in := validInput("")
		in.PostalCode = 0
		in.City = "  "
		_, err := s.service.Create(s.ctx(), in)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.ElementsMatch([]string{"name", "postalCode", "city"}, dErrors.FieldsOf(err))
	})

	s.Run("rejected input leaves the store unchanged", func() {
		before, err := s.service.List(s.ctx())
		s.Require().NoError(err)

		for _, postal := range []int{-1, math.MaxInt32 + 1} {
			in := validInput(fmt.Sprintf("Rejected %d", postal))
			in.PostalCode = postal
			_, err := s.service.Create(s.ctx(), in)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "postal code %d", postal)
			s.Equal([]string{"postalCode"}, dErrors.FieldsOf(err))
		}

		after, err := s.service.List(s.ctx())
		s.Require().NoError(err)
		s.Equal(before, after)
	})

	s.Run("timestamps are UTC at microsecond precision", func() {
		local := time.Date(2025, 10, 1, 10, 0, 0, 123456789, time.FixedZone("CEST", 2*60*60))
		p, err := s.service.Create(testutil.ContextAt(local), validInput("Precision"))
		s.Require().NoError(err)
		s.Equal(time.UTC, p.CreatedAt.Location())
		s.Equal(123456000, p.CreatedAt.Nanosecond())
	})
}

// =============================================================================
// Reads
// =============================================================================

func (s *ServiceSuite) TestGetByID() {
	_, err := s.service.GetByID(s.ctx(), id.PosID(404))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListReturnsInsertionOrder() {
	empty, err := s.service.List(s.ctx())
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	names := []string{"Zeta", "Alpha", "Mu"}
	for _, n := range names {
		_, err := s.service.Create(s.ctx(), validInput(n))
		s.Require().NoError(err)
	}

	all, err := s.service.List(s.ctx())
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	for i, p := range all {
		s.Equal(names[i], p.Name)
	}
}

func (s *ServiceSuite) TestFilterByName() {
	created, err := s.service.Create(s.ctx(), validInput("Exact Match"))
	s.Require().NoError(err)

	s.Run("exact name hits", func() {
		p, err := s.service.FilterByName(s.ctx(), "Exact Match")
		s.Require().NoError(err)
		s.Equal(created.ID, p.ID)
	})

	s.Run("match is case-sensitive", func() {
		_, err := s.service.FilterByName(s.ctx(), "exact match")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("blank name is a validation error", func() {
		_, err := s.service.FilterByName(s.ctx(), "   ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Update
// =============================================================================

func (s *ServiceSuite) TestUpdate() {
	s.Run("changes only the given fields and keeps identity", func() {
		p, err := s.service.Create(s.ctx(), validInput("Update Me"))
		s.Require().NoError(err)

		updated, err := s.service.Update(s.ctx(), p.ID, models.PosUpdate{Description: strPtr("Now with waffles")})
		s.Require().NoError(err)
		s.True(updated.UpdatedAt.After(p.UpdatedAt))

		want := p.Clone()
		want.Description = "Now with waffles"
		want.UpdatedAt = updated.UpdatedAt
		s.Equal(want, updated, "every field but Description and UpdatedAt is unchanged")

		stored, err := s.service.GetByID(s.ctx(), p.ID)
		s.Require().NoError(err)
		s.Equal(updated, stored)
	})

	s.Run("UpdatedAt advances even when the clock does not", func() {
		frozen := time.Date(2025, 10, 2, 9, 0, 0, 0, time.UTC)
		ctx := testutil.ContextAt(frozen)
		p, err := s.service.Create(ctx, validInput("Frozen Clock"))
		s.Require().NoError(err)

		first, err := s.service.Update(ctx, p.ID, models.PosUpdate{Description: strPtr("one")})
		s.Require().NoError(err)
		second, err := s.service.Update(ctx, p.ID, models.PosUpdate{Description: strPtr("two")})
		s.Require().NoError(err)

		s.True(first.UpdatedAt.After(p.UpdatedAt))
		s.True(second.UpdatedAt.After(first.UpdatedAt))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.Update(s.ctx(), id.PosID(9999), models.PosUpdate{Description: strPtr("x")})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid merge leaves the record untouched", func() {
		p, err := s.service.Create(s.ctx(), validInput("Stays Valid"))
		s.Require().NoError(err)

		_, err = s.service.Update(s.ctx(), p.ID, models.PosUpdate{Street: strPtr("")})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal([]string{"street"}, dErrors.FieldsOf(err))

		stored, err := s.service.GetByID(s.ctx(), p.ID)
		s.Require().NoError(err)
		s.Equal(p, stored)
	})

	s.Run("renaming onto another record's name conflicts", func() {
		_, err := s.service.Create(s.ctx(), validInput("First Owner"))
		s.Require().NoError(err)
		other, err := s.service.Create(s.ctx(), validInput("Second Owner"))
		s.Require().NoError(err)

		_, err = s.service.Update(s.ctx(), other.ID, models.PosUpdate{Name: strPtr("First Owner")})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("keeping its own name is allowed", func() {
		p, err := s.service.Create(s.ctx(), validInput("Own Name"))
		s.Require().NoError(err)

		_, err = s.service.Update(s.ctx(), p.ID, models.PosUpdate{Name: strPtr("Own Name")})
		s.NoError(err)
	})
}

// =============================================================================
// Clear
// =============================================================================

func (s *ServiceSuite) TestClear() {
	first, err := s.service.Create(s.ctx(), validInput("Gone Soon"))
	s.Require().NoError(err)

	s.Require().NoError(s.service.Clear(s.ctx()))

	all, err := s.service.List(s.ctx())
	s.Require().NoError(err)
	s.Empty(all)

	_, err = s.service.GetByID(s.ctx(), first.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	again, err := s.service.Create(s.ctx(), validInput("Gone Soon"))
	s.Require().NoError(err)
	s.Greater(int64(again.ID), int64(first.ID))
}

// =============================================================================
// Concurrency
// =============================================================================

func (s *ServiceSuite) TestConcurrentCreatesWithSameName() {
	const goroutines = 50
	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	ctx := testutil.ContextAt(s.clock)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Create(ctx, validInput("Contended"))
			switch {
			case err == nil:
				successCount.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *ServiceSuite) TestConcurrentUpdatesKeepRecordValid() {
	p, err := s.service.Create(s.ctx(), validInput("Busy"))
	s.Require().NoError(err)

	const goroutines = 20
	var wg sync.WaitGroup
	ctx := testutil.ContextAt(s.clock)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _ = s.service.Update(ctx, p.ID, models.PosUpdate{Description: strPtr(fmt.Sprintf("rev %d", idx))})
		}(i)
	}
	wg.Wait()

	stored, err := s.service.GetByID(s.ctx(), p.ID)
	s.Require().NoError(err)
	s.NoError(stored.Validate())
	s.Equal(p.CreatedAt, stored.CreatedAt)
	s.True(stored.UpdatedAt.After(p.UpdatedAt))
}
