package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campuscoffee/internal/pos/models"
	id "campuscoffee/pkg/domain"
	"campuscoffee/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func newTestPos(name string) *models.Pos {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	return &models.Pos{
		Name:        name,
		Description: "espresso bar",
		Type:        id.PosTypeCafe,
		Campus:      id.CampusAltstadt,
		Street:      "Grabengasse",
		HouseNumber: "1",
		PostalCode:  69117,
		City:        "Heidelberg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *InMemoryStoreSuite) TestCreationAndLookups() {
	s.Run("assigns increasing ids", func() {
		a := newTestPos("Alpha")
		b := newTestPos("Beta")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, a))
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, b))
		s.Greater(int64(b.ID), int64(a.ID))
	})

	s.Run("finds by id and name", func() {
		p := newTestPos("Gamma")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, p))

		byID, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Gamma", byID.Name)

		byName, err := s.store.FindByName(s.ctx, "Gamma")
		s.Require().NoError(err)
		s.Equal(p.ID, byName.ID)
	})

	s.Run("returns ErrNotFound for unknown id and name", func() {
		_, err := s.store.FindByID(s.ctx, id.PosID(9999))
		s.ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByName(s.ctx, "nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned records are copies", func() {
		p := newTestPos("Delta")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		found.Description = "mutated"

		again, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("espresso bar", again.Description)
	})
}

func (s *InMemoryStoreSuite) TestNameUniqueness() {
	s.Run("rejects duplicate name on create", func() {
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, newTestPos("Dup")))
		err := s.store.CreateIfNameAvailable(s.ctx, newTestPos("Dup"))
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("names are case-sensitive", func() {
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, newTestPos("Case")))
		s.NoError(s.store.CreateIfNameAvailable(s.ctx, newTestPos("case")))
	})

	s.Run("rejects rename onto another record's name", func() {
		a := newTestPos("Owner")
		b := newTestPos("Other")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, a))
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, b))

		b.Name = "Owner"
		s.ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrConflict)
	})

	s.Run("rename frees the old name", func() {
		p := newTestPos("Before")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, p))
		p.Name = "After"
		s.Require().NoError(s.store.Update(s.ctx, p))

		_, err := s.store.FindByName(s.ctx, "Before")
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.NoError(s.store.CreateIfNameAvailable(s.ctx, newTestPos("Before")))
	})
}

func (s *InMemoryStoreSuite) TestUpdate() {
	s.Run("replaces the stored record", func() {
		p := newTestPos("Upd")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, p))
		p.Description = "now with cake"
		s.Require().NoError(s.store.Update(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("now with cake", found.Description)
	})

	s.Run("keeping the same name is not a conflict", func() {
		p := newTestPos("Same")
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, p))
		s.NoError(s.store.Update(s.ctx, p))
	})

	s.Run("unknown id is ErrNotFound", func() {
		p := newTestPos("Ghost")
		p.ID = 424242
		s.ErrorIs(s.store.Update(s.ctx, p), sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestListAndDeleteAll() {
	names := []string{"One", "Two", "Three"}
	for _, n := range names {
		s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, newTestPos(n)))
	}

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	for i, p := range all {
		s.Equal(names[i], p.Name)
	}

	last := all[2].ID
	s.Require().NoError(s.store.DeleteAll(s.ctx))

	empty, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	// ids keep counting after a clear
	p := newTestPos("One")
	s.Require().NoError(s.store.CreateIfNameAvailable(s.ctx, p))
	s.Greater(int64(p.ID), int64(last))
}

func (s *InMemoryStoreSuite) TestConcurrentSameNameCreates() {
	const goroutines = 50
	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateIfNameAvailable(s.ctx, newTestPos("Race"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *InMemoryStoreSuite) TestConcurrentDistinctCreatesGetUniqueIDs() {
	const goroutines = 50
	var wg sync.WaitGroup
	ids := make(chan id.PosID, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p := newTestPos(fmt.Sprintf("Shop %d", idx))
			if err := s.store.CreateIfNameAvailable(s.ctx, p); err == nil {
				ids <- p.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[id.PosID]struct{})
	for posID := range ids {
		seen[posID] = struct{}{}
	}
	s.Len(seen, goroutines)
}
