package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/beavernet-backend/internal/domain"
)

func TestColumns_FlattensBase(t *testing.T) {
	t.Parallel()

	cols := Columns[domain.IncidentUnit]()

	assert.Equal(t, []string{
		"id", "created_at", "updated_at",
		"incident_id", "unit_id", "assigned_at", "released_at", "notes",
	}, cols)
}

func TestHasColumn(t *testing.T) {
	t.Parallel()

	assert.True(t, HasColumn[domain.Animal]("owner_name"))
	assert.True(t, HasColumn[domain.Animal]("id"))
	assert.False(t, HasColumn[domain.Animal]("ownerName"))
}

func TestValues(t *testing.T) {
	t.Parallel()

	incidentID := int64(9)
	u := domain.Unit{Base: domain.Base{ID: 3}, CallSign: "E1", CurrentIncidentID: &incidentID}

	vals := Values(&u)

	assert.Equal(t, int64(3), vals["id"])
	assert.Equal(t, "E1", vals["call_sign"])
	assert.Equal(t, &incidentID, vals["current_incident_id"])
}

func TestMatchAll(t *testing.T) {
	t.Parallel()

	incidentID := int64(5)
	unit := domain.Unit{
		CallSign:          "MEDIC7",
		UnitType:          "ambulance",
		Status:            domain.UnitDispatched,
		CurrentIncidentID: &incidentID,
	}

	tests := []struct {
		name    string
		filters []Filter
		want    bool
	}{
		{"no filters", nil, true},
		{"eq string", []Filter{Eq("unit_type", "ambulance")}, true},
		{"eq typed string", []Filter{Eq("status", domain.UnitDispatched)}, true},
		{"eq mismatch", []Filter{Eq("status", "available")}, false},
		{"eq pointer int64", []Filter{Eq("current_incident_id", int64(5))}, true},
		{"eq pointer from string", []Filter{Eq("current_incident_id", "5")}, true},
		{"eq pointer mismatch", []Filter{Eq("current_incident_id", int64(6))}, false},
		{"contains ignores case", []Filter{Contains("call_sign", "dic")}, true},
		{"contains miss", []Filter{Contains("call_sign", "engine")}, false},
		{"all must match", []Filter{Eq("unit_type", "ambulance"), Eq("status", "available")}, false},
		{"unknown column", []Filter{Eq("nope", "x")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MatchAll(&unit, tt.filters))
		})
	}
}

func TestMatchAll_NilPointer(t *testing.T) {
	t.Parallel()

	unit := domain.Unit{CallSign: "E2"}

	assert.False(t, MatchAll(&unit, []Filter{Eq("current_incident_id", int64(1))}))
	assert.True(t, MatchAll(&unit, []Filter{Eq("current_incident_id", nil)}))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate[domain.Customer]([]Filter{Contains("full_name", "x")}))
	require.Error(t, Validate[domain.Customer]([]Filter{Eq("fullName", "x")}))
	require.Error(t, Validate[domain.Customer]([]Filter{{Column: "full_name", Op: Op(9)}}))
}

func TestSortRecords_Ascending(t *testing.T) {
	t.Parallel()

	recs := []domain.Customer{
		{Base: domain.Base{ID: 1}, FullName: "zed"},
		{Base: domain.Base{ID: 2}, FullName: "Amy"},
		{Base: domain.Base{ID: 3}, FullName: "bob"},
		{Base: domain.Base{ID: 4}, FullName: "amy"},
	}

	SortRecords(recs)

	ids := make([]int64, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, ids)
}

func TestSortRecords_Descending(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []domain.CallEntryLog{
		{Base: domain.Base{ID: 1}, ReceivedAt: base},
		{Base: domain.Base{ID: 2}, ReceivedAt: base.Add(2 * time.Hour)},
		{Base: domain.Base{ID: 3}, ReceivedAt: base.Add(time.Hour)},
	}

	SortRecords(recs)

	assert.Equal(t, int64(2), recs[0].ID)
	assert.Equal(t, int64(3), recs[1].ID)
	assert.Equal(t, int64(1), recs[2].ID)
}

func TestSortRecords_InsertionOrderWithoutSorter(t *testing.T) {
	t.Parallel()

	recs := []domain.Unit{{Base: domain.Base{ID: 2}}, {Base: domain.Base{ID: 1}}}
	SortRecords(recs)

	assert.Equal(t, int64(2), recs[0].ID)
}

func TestPrepareCreate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	inc := domain.Incident{Type: "fire", Location: "Dam Rd", Base: domain.Base{ID: 99}}

	PrepareCreate(&inc, 12, now)

	assert.Equal(t, int64(12), inc.ID)
	assert.Equal(t, now, inc.CreatedAt)
	assert.Equal(t, now, inc.UpdatedAt)
	assert.Equal(t, domain.IncidentPending, inc.Status)
	assert.Equal(t, "INC-2026-00012", inc.IncidentNumber)
}

func TestApplyUpdate_RestoresHeaderAndAdvances(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	current := domain.Unit{
		Base:     domain.Base{ID: 4, CreatedAt: created, UpdatedAt: created},
		CallSign: "E4",
		Status:   domain.UnitAvailable,
	}

	next, err := ApplyUpdate(current, func(u *domain.Unit) error {
		u.ID = 1000
		u.CreatedAt = time.Time{}
		u.Station = "North"
		return nil
	}, created)
	require.NoError(t, err)

	assert.Equal(t, int64(4), next.ID)
	assert.Equal(t, created, next.CreatedAt)
	assert.True(t, next.UpdatedAt.After(created))
	assert.Equal(t, "North", next.Station)
	assert.Empty(t, current.Station)
}

func TestApplyUpdate_ErrorLeavesOriginal(t *testing.T) {
	t.Parallel()

	resolved := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	current := domain.Incident{ResolvedAt: &resolved}
	boom := errors.New("boom")

	_, err := ApplyUpdate(current, func(i *domain.Incident) error {
		*i.ResolvedAt = resolved.Add(time.Hour)
		return boom
	}, resolved)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, resolved, *current.ResolvedAt)
}

func TestNextUpdatedAt(t *testing.T) {
	t.Parallel()

	prev := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, prev.Add(time.Second), NextUpdatedAt(prev, prev.Add(time.Second)))
	assert.Equal(t, prev.Add(time.Microsecond), NextUpdatedAt(prev, prev))
	assert.Equal(t, prev.Add(time.Microsecond), NextUpdatedAt(prev, prev.Add(-time.Hour)))
}

func TestClone_CopiesPointers(t *testing.T) {
	t.Parallel()

	id := int64(1)
	orig := domain.Unit{CurrentIncidentID: &id}

	cp := Clone(orig)
	*cp.CurrentIncidentID = 2

	assert.Equal(t, int64(1), *orig.CurrentIncidentID)
}

func TestCollections_Unique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, c := range Collections() {
		assert.False(t, seen[c], "duplicate collection %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 24)
}
