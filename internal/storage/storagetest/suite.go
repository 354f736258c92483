// Package storagetest holds behaviour checks every storage backend must pass.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
	"github.com/heartmarshall/beavernet-backend/internal/storage"
)

// NewStoreFunc returns an empty store. It is called once per subtest.
type NewStoreFunc func(t *testing.T) *storage.Store

// Run executes the backend conformance checks.
func Run(t *testing.T, newStore NewStoreFunc) {
	t.Helper()

	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, newStore(t)) })
	t.Run("IDsPerCollection", func(t *testing.T) { testIDsPerCollection(t, newStore(t)) })
	t.Run("GetUnknown", func(t *testing.T) { testGetUnknown(t, newStore(t)) })
	t.Run("UpdateMergesAndAdvances", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("UpdateUnknown", func(t *testing.T) { testUpdateUnknown(t, newStore(t)) })
	t.Run("UpdateErrorKeepsRecord", func(t *testing.T) { testUpdateError(t, newStore(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("Find", func(t *testing.T) { testFind(t, newStore(t)) })
	t.Run("ConcurrentCreate", func(t *testing.T) { testConcurrentCreate(t, newStore(t)) })
}

func testCreateThenGet(t *testing.T, s *storage.Store) {
	ctx := context.Background()
	before := time.Now().Add(-time.Second)

	created, err := s.Incidents.Create(ctx, domain.Incident{
		Type:        "fire",
		Priority:    "high",
		Location:    "12 Lodge Lane",
		Description: "smoke from chimney",
		CallerName:  "B. Castor",
	})
	require.NoError(t, err)

	assert.Positive(t, created.ID)
	assert.True(t, created.CreatedAt.After(before))
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
	assert.Equal(t, fmt.Sprintf("INC-%d-%05d", created.CreatedAt.Year(), created.ID), created.IncidentNumber)
	assert.Equal(t, domain.IncidentPending, created.Status)

	got, err := s.Incidents.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, "fire", got.Type)
	assert.Equal(t, "high", got.Priority)
	assert.Equal(t, "12 Lodge Lane", got.Location)
	assert.Equal(t, "smoke from chimney", got.Description)
	assert.Equal(t, "B. Castor", got.CallerName)
	assert.Equal(t, created.IncidentNumber, got.IncidentNumber)
	assert.Nil(t, got.ResolvedAt)
}

func testIDsPerCollection(t *testing.T, s *storage.Store) {
	ctx := context.Background()

	first, err := s.Units.Create(ctx, domain.Unit{CallSign: "E1", UnitType: "engine"})
	require.NoError(t, err)
	second, err := s.Units.Create(ctx, domain.Unit{CallSign: "E2", UnitType: "engine"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	other, err := s.Customers.Create(ctx, domain.Customer{FullName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, other.ID, "collections number independently")
}

func testGetUnknown(t *testing.T, s *storage.Store) {
	_, err := s.Animals.Get(context.Background(), 4242)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testUpdate(t *testing.T, s *storage.Store) {
	ctx := context.Background()

	created, err := s.Units.Create(ctx, domain.Unit{CallSign: "M3", UnitType: "ambulance", Station: "North"})
	require.NoError(t, err)

	incidentID := int64(77)
	updated, err := s.Units.Update(ctx, created.ID, func(u *domain.Unit) error {
		u.Status = domain.UnitDispatched
		u.CurrentIncidentID = &incidentID
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, domain.UnitDispatched, updated.Status)
	require.NotNil(t, updated.CurrentIncidentID)
	assert.Equal(t, incidentID, *updated.CurrentIncidentID)
	assert.Equal(t, "North", updated.Station)
	assert.Equal(t, "M3", updated.CallSign)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	again, err := s.Units.Update(ctx, created.ID, func(u *domain.Unit) error { return nil })
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	got, err := s.Units.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitDispatched, got.Status)
	assert.True(t, got.UpdatedAt.Equal(again.UpdatedAt))
}

func testUpdateUnknown(t *testing.T, s *storage.Store) {
	ctx := context.Background()

	_, err := s.Customers.Create(ctx, domain.Customer{FullName: "Existing"})
	require.NoError(t, err)

	called := false
	_, err = s.Customers.Update(ctx, 999, func(c *domain.Customer) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)

	all, err := s.Customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Existing", all[0].FullName)
}

func testUpdateError(t *testing.T, s *storage.Store) {
	ctx := context.Background()

	created, err := s.Customers.Create(ctx, domain.Customer{FullName: "Keep Me"})
	require.NoError(t, err)

	boom := errors.New("rejected")
	_, err = s.Customers.Update(ctx, created.ID, func(c *domain.Customer) error {
		c.FullName = "Changed"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Customers.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep Me", got.FullName)
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt))
}

func testListOrder(t *testing.T, s *storage.Store) {
	ctx := context.Background()

	empty, err := s.Units.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, cs := range []string{"C", "A", "B"} {
		_, err := s.Units.Create(ctx, domain.Unit{CallSign: cs, UnitType: "patrol"})
		require.NoError(t, err)
	}
	units, err := s.Units.List(ctx)
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{units[0].CallSign, units[1].CallSign, units[2].CallSign})

	for _, name := range []string{"Zoe", "adam", "Mia"} {
		_, err := s.Customers.Create(ctx, domain.Customer{FullName: name})
		require.NoError(t, err)
	}
	customers, err := s.Customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, []string{"adam", "Mia", "Zoe"},
		[]string{customers[0].FullName, customers[1].FullName, customers[2].FullName})
}

func testFind(t *testing.T, s *storage.Store) {
	ctx := context.Background()

	seed := []domain.Animal{
		{Species: "dog", Name: "Rex", OwnerName: "Jane Beaver", Status: "registered"},
		{Species: "cat", Name: "Tom", OwnerName: "John Otter", Status: "impounded"},
		{Species: "dog", Name: "Fido", OwnerName: "jane beaver", Status: "impounded"},
	}
	for _, a := range seed {
		_, err := s.Animals.Create(ctx, a)
		require.NoError(t, err)
	}

	byOwner, err := s.Animals.Find(ctx, storage.Contains("owner_name", "BEAVER"))
	require.NoError(t, err)
	require.Len(t, byOwner, 2)
	assert.Equal(t, "Rex", byOwner[0].Name)
	assert.Equal(t, "Fido", byOwner[1].Name)

	both, err := s.Animals.Find(ctx,
		storage.Contains("owner_name", "beaver"),
		storage.Eq("status", "impounded"),
	)
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Fido", both[0].Name)

	// Whitespace is matched as given and LIKE wildcards are literal.
	spaced, err := s.Animals.Find(ctx, storage.Contains("owner_name", "jane  beaver"))
	require.NoError(t, err)
	assert.Empty(t, spaced)

	wildcard, err := s.Animals.Find(ctx, storage.Contains("owner_name", "j%r"))
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	none, err := s.Animals.Find(ctx, storage.Eq("species", "bird"))
	require.NoError(t, err)
	assert.Empty(t, none)

	incidentID := int64(5)
	_, err = s.CallLogs.Create(ctx, domain.CallEntryLog{Summary: "linked", IncidentID: &incidentID})
	require.NoError(t, err)
	_, err = s.CallLogs.Create(ctx, domain.CallEntryLog{Summary: "unlinked"})
	require.NoError(t, err)

	linked, err := s.CallLogs.Find(ctx, storage.Eq("incident_id", incidentID))
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "linked", linked[0].Summary)

	_, err = s.CallLogs.Find(ctx, storage.Eq("no_such_column", 1))
	require.Error(t, err)
}

func testConcurrentCreate(t *testing.T, s *storage.Store) {
	ctx := context.Background()
	const n = 20

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := s.PosTransactions.Create(ctx, domain.PosTransaction{
				Terminal: fmt.Sprintf("T%d", i%3),
				Amount:   float64(i + 1),
				Method:   "cash",
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[rec.ID] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, n)
	all, err := s.PosTransactions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}
