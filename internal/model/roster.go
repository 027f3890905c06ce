package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DutyRoster is a user's weekly pattern of duty-type assignments,
// optionally scoped to a zone and/or a specific mehfil. A user has at
// most one roster per distinct (zone, mehfil) pair.
type DutyRoster struct {
	Base
	UserID            uuid.UUID    `json:"user_id" db:"user_id"`
	ZoneID            *uuid.UUID   `json:"zone_id,omitempty" db:"zone_id"`
	MehfilDirectoryID *uuid.UUID   `json:"mehfil_directory_id,omitempty" db:"mehfil_directory_id"`
	Slots             WeekdaySlots `json:"-"`
}

func (r DutyRoster) MarshalJSON() ([]byte, error) {
	type alias DutyRoster
	return json.Marshal(struct {
		alias
		WeekdayColumns
	}{alias(r), NewWeekdayColumns(r.Slots)})
}

func (r *DutyRoster) UnmarshalJSON(b []byte) error {
	type alias DutyRoster
	aux := struct {
		*alias
		WeekdayColumns
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Slots = aux.WeekdayColumns.Slots()
	return nil
}

// DutyEntry is one duty held by a user on a given day in the
// consolidated view.
type DutyEntry struct {
	DutyTypeID uuid.UUID `json:"duty_type_id"`
	DutyType   string    `json:"duty_type"`
	Mehfil     *string   `json:"mehfil,omitempty"`
}

// UserWeek is the consolidated weekly grid for one user: every day
// bucket is present, holding zero or more duties (a user may hold
// duties at more than one mehfil at once).
type UserWeek struct {
	UserID uuid.UUID               `json:"user_id"`
	User   string                  `json:"user"`
	Duties map[Weekday][]DutyEntry `json:"duties"`
}
