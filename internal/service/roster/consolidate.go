package roster

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/model"
)

// References holds the directory rows needed to render names in the
// consolidated grid.
type References struct {
	Karkuns   map[uuid.UUID]*model.Karkun
	DutyTypes map[uuid.UUID]*model.DutyType
	Mehfils   map[uuid.UUID]*model.MehfilDirectory
}

// Consolidate folds raw roster and coordinator rows into one weekly
// grid per user. Every day bucket is present; a user holding duties at
// several mehfils gets several entries in the same bucket. Pure
// transformation: upstream fetch errors are the caller's problem.
func Consolidate(rosters []*model.DutyRoster, coords []*model.MehfilCoordinator, refs References) []model.UserWeek {
	weeks := map[uuid.UUID]*model.UserWeek{}

	weekFor := func(userID uuid.UUID) *model.UserWeek {
		if w, ok := weeks[userID]; ok {
			return w
		}
		w := &model.UserWeek{
			UserID: userID,
			Duties: map[model.Weekday][]model.DutyEntry{},
		}
		if k, ok := refs.Karkuns[userID]; ok {
			w.User = k.Name
		}
		for _, day := range model.AllWeekdays {
			w.Duties[day] = []model.DutyEntry{}
		}
		weeks[userID] = w
		return w
	}

	addSlots := func(userID uuid.UUID, slots model.WeekdaySlots, mehfilID *uuid.UUID) {
		w := weekFor(userID)
		for _, day := range model.AllWeekdays {
			dutyTypeID, ok := slots[day]
			if !ok {
				continue
			}
			entry := model.DutyEntry{DutyTypeID: dutyTypeID}
			if dt, ok := refs.DutyTypes[dutyTypeID]; ok {
				entry.DutyType = dt.Name
			}
			if mehfilID != nil {
				if m, ok := refs.Mehfils[*mehfilID]; ok {
					name := m.Name
					entry.Mehfil = &name
				}
			}
			w.Duties[day] = append(w.Duties[day], entry)
		}
	}

	for _, r := range rosters {
		// A roster with zero assigned days still yields a grid row.
		addSlots(r.UserID, r.Slots, r.MehfilDirectoryID)
	}
	for _, c := range coords {
		mehfilID := c.MehfilDirectoryID
		addSlots(c.UserID, c.Slots, &mehfilID)
	}

	out := make([]model.UserWeek, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].User != out[j].User {
			return out[i].User < out[j].User
		}
		return out[i].UserID.String() < out[j].UserID.String()
	})
	return out
}
