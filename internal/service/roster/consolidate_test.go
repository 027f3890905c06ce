package roster

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehfilportal/admin-api/internal/model"
)

func TestConsolidateEmpty(t *testing.T) {
	weeks := Consolidate(nil, nil, References{})
	assert.Empty(t, weeks)
}

func TestConsolidateAllDayBucketsPresent(t *testing.T) {
	userID := uuid.New()
	rosters := []*model.DutyRoster{
		{UserID: userID, Slots: model.WeekdaySlots{}},
	}

	weeks := Consolidate(rosters, nil, References{
		Karkuns: map[uuid.UUID]*model.Karkun{userID: {ID: userID, Name: "Ahmed"}},
	})

	require.Len(t, weeks, 1)
	require.Len(t, weeks[0].Duties, 7, "every day bucket is present even when empty")
	for _, day := range model.AllWeekdays {
		assert.NotNil(t, weeks[0].Duties[day])
		assert.Empty(t, weeks[0].Duties[day])
	}
}

func TestConsolidateMergesRostersForSameUser(t *testing.T) {
	userID := uuid.New()
	dutyType := uuid.New()
	mehfilA := uuid.New()
	mehfilB := uuid.New()

	rosters := []*model.DutyRoster{
		{UserID: userID, MehfilDirectoryID: &mehfilA, Slots: model.WeekdaySlots{model.Monday: dutyType}},
		{UserID: userID, MehfilDirectoryID: &mehfilB, Slots: model.WeekdaySlots{model.Monday: dutyType}},
	}

	refs := References{
		Karkuns:   map[uuid.UUID]*model.Karkun{userID: {ID: userID, Name: "Ahmed"}},
		DutyTypes: map[uuid.UUID]*model.DutyType{dutyType: {Base: model.Base{ID: dutyType}, Name: "Security"}},
		Mehfils: map[uuid.UUID]*model.MehfilDirectory{
			mehfilA: {ID: mehfilA, Name: "North Mehfil"},
			mehfilB: {ID: mehfilB, Name: "South Mehfil"},
		},
	}

	weeks := Consolidate(rosters, nil, refs)
	require.Len(t, weeks, 1, "one grid row per user")

	monday := weeks[0].Duties[model.Monday]
	require.Len(t, monday, 2, "duties at both mehfils appear in the same bucket")
	assert.Equal(t, "Security", monday[0].DutyType)
}

func TestConsolidateIncludesCoordinators(t *testing.T) {
	userID := uuid.New()
	dutyType := uuid.New()
	mehfilID := uuid.New()

	coords := []*model.MehfilCoordinator{
		{
			MehfilDirectoryID: mehfilID,
			UserID:            userID,
			CoordinatorType:   model.CoordinatorTajweedMain,
			Slots:             model.WeekdaySlots{model.Sunday: dutyType},
		},
	}

	refs := References{
		Karkuns:   map[uuid.UUID]*model.Karkun{userID: {ID: userID, Name: "Bilal"}},
		DutyTypes: map[uuid.UUID]*model.DutyType{dutyType: {Base: model.Base{ID: dutyType}, Name: "Tajweed"}},
		Mehfils:   map[uuid.UUID]*model.MehfilDirectory{mehfilID: {ID: mehfilID, Name: "City Mehfil"}},
	}

	weeks := Consolidate(nil, coords, refs)
	require.Len(t, weeks, 1)

	sunday := weeks[0].Duties[model.Sunday]
	require.Len(t, sunday, 1)
	assert.Equal(t, "Tajweed", sunday[0].DutyType)
	require.NotNil(t, sunday[0].Mehfil)
	assert.Equal(t, "City Mehfil", *sunday[0].Mehfil)
}

func TestConsolidateSortsByName(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	rosters := []*model.DutyRoster{
		{UserID: c, Slots: model.WeekdaySlots{}},
		{UserID: a, Slots: model.WeekdaySlots{}},
		{UserID: b, Slots: model.WeekdaySlots{}},
	}

	refs := References{Karkuns: map[uuid.UUID]*model.Karkun{
		a: {ID: a, Name: "Aisha"},
		b: {ID: b, Name: "Bilal"},
		c: {ID: c, Name: "Zain"},
	}}

	weeks := Consolidate(rosters, nil, refs)
	require.Len(t, weeks, 3)
	assert.Equal(t, "Aisha", weeks[0].User)
	assert.Equal(t, "Bilal", weeks[1].User)
	assert.Equal(t, "Zain", weeks[2].User)
}
