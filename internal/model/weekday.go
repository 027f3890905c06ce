package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Weekday is one of the seven fixed day tokens used by duty rosters.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays lists the days in calendar order.
var AllWeekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday validates a day token.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid weekday %q", s)
	}
	return d, nil
}

func (d Weekday) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Column returns the database column holding this day's duty type.
// Only valid weekdays reach query builders, so the result is safe to
// interpolate as an identifier.
func (d Weekday) Column() string {
	return "duty_type_id_" + string(d)
}

// WeekdaySlots maps a weekday to the assigned duty type. Absent keys
// are unassigned days; a roster with no entries is valid.
type WeekdaySlots map[Weekday]uuid.UUID

// WeekdayColumns is the flat seven-field representation used on the
// wire and in the database (duty_type_id_monday .. duty_type_id_sunday).
type WeekdayColumns struct {
	Monday    *uuid.UUID `json:"duty_type_id_monday,omitempty" db:"duty_type_id_monday"`
	Tuesday   *uuid.UUID `json:"duty_type_id_tuesday,omitempty" db:"duty_type_id_tuesday"`
	Wednesday *uuid.UUID `json:"duty_type_id_wednesday,omitempty" db:"duty_type_id_wednesday"`
	Thursday  *uuid.UUID `json:"duty_type_id_thursday,omitempty" db:"duty_type_id_thursday"`
	Friday    *uuid.UUID `json:"duty_type_id_friday,omitempty" db:"duty_type_id_friday"`
	Saturday  *uuid.UUID `json:"duty_type_id_saturday,omitempty" db:"duty_type_id_saturday"`
	Sunday    *uuid.UUID `json:"duty_type_id_sunday,omitempty" db:"duty_type_id_sunday"`
}

func (c *WeekdayColumns) field(d Weekday) **uuid.UUID {
	switch d {
	case Monday:
		return &c.Monday
	case Tuesday:
		return &c.Tuesday
	case Wednesday:
		return &c.Wednesday
	case Thursday:
		return &c.Thursday
	case Friday:
		return &c.Friday
	case Saturday:
		return &c.Saturday
	default:
		return &c.Sunday
	}
}

// NewWeekdayColumns converts a slot map into the flat representation.
func NewWeekdayColumns(s WeekdaySlots) WeekdayColumns {
	var c WeekdayColumns
	for d, id := range s {
		v := id
		*c.field(d) = &v
	}
	return c
}

// Slots converts the flat representation back into a slot map.
func (c WeekdayColumns) Slots() WeekdaySlots {
	s := WeekdaySlots{}
	for _, d := range AllWeekdays {
		if p := *c.field(d); p != nil && *p != uuid.Nil {
			s[d] = *p
		}
	}
	return s
}

