package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// CoordinatorType identifies one fixed role slot at a mehfil. The
// category/rank structure is fixed taxonomy, not user-editable data.
type CoordinatorType string

const (
	CoordinatorMehfilMain CoordinatorType = "mehfil_main"
	CoordinatorMehfilSub1 CoordinatorType = "mehfil_sub_1"
	CoordinatorMehfilSub2 CoordinatorType = "mehfil_sub_2"
	CoordinatorMehfilSub3 CoordinatorType = "mehfil_sub_3"

	CoordinatorTarbiyatMain CoordinatorType = "tarbiyat_main"
	CoordinatorTarbiyatSub1 CoordinatorType = "tarbiyat_sub_1"
	CoordinatorTarbiyatSub2 CoordinatorType = "tarbiyat_sub_2"

	CoordinatorTechnicalMain CoordinatorType = "technical_main"
	CoordinatorTechnicalSub1 CoordinatorType = "technical_sub_1"

	CoordinatorTajweedMain CoordinatorType = "tajweed_main"
	CoordinatorTajweedSub1 CoordinatorType = "tajweed_sub_1"

	CoordinatorAhlEBaitMain CoordinatorType = "ahl_e_bait_main"
	CoordinatorAhlEBaitSub1 CoordinatorType = "ahl_e_bait_sub_1"
	CoordinatorAhlEBaitSub2 CoordinatorType = "ahl_e_bait_sub_2"
)

// CoordinatorCategory groups ranked sub-roles under a named category.
type CoordinatorCategory struct {
	Name  string            `json:"name"`
	Types []CoordinatorType `json:"types"`
}

// CoordinatorTaxonomy returns the five fixed categories with their
// ranked sub-roles, in display order. Callers render one dropdown per
// sub-role.
func CoordinatorTaxonomy() []CoordinatorCategory {
	return []CoordinatorCategory{
		{Name: "Mehfil", Types: []CoordinatorType{
			CoordinatorMehfilMain, CoordinatorMehfilSub1, CoordinatorMehfilSub2, CoordinatorMehfilSub3,
		}},
		{Name: "Tarbiyat", Types: []CoordinatorType{
			CoordinatorTarbiyatMain, CoordinatorTarbiyatSub1, CoordinatorTarbiyatSub2,
		}},
		{Name: "Technical", Types: []CoordinatorType{
			CoordinatorTechnicalMain, CoordinatorTechnicalSub1,
		}},
		{Name: "Tajweed", Types: []CoordinatorType{
			CoordinatorTajweedMain, CoordinatorTajweedSub1,
		}},
		{Name: "Ahl-e-Bait", Types: []CoordinatorType{
			CoordinatorAhlEBaitMain, CoordinatorAhlEBaitSub1, CoordinatorAhlEBaitSub2,
		}},
	}
}

func (t CoordinatorType) Valid() bool {
	for _, cat := range CoordinatorTaxonomy() {
		for _, ct := range cat.Types {
			if ct == t {
				return true
			}
		}
	}
	return false
}

// MehfilCoordinator assigns one user to one fixed role slot at a
// mehfil. At most one active row exists per (mehfil, coordinator_type);
// reassignment replaces the prior holder atomically. Coordinators carry
// the same weekly duty pattern as rosters.
type MehfilCoordinator struct {
	Base
	MehfilDirectoryID uuid.UUID       `json:"mehfil_directory_id" db:"mehfil_directory_id"`
	UserID            uuid.UUID       `json:"user_id" db:"user_id"`
	CoordinatorType   CoordinatorType `json:"coordinator_type" db:"coordinator_type"`
	Slots             WeekdaySlots    `json:"-"`
}

func (m MehfilCoordinator) MarshalJSON() ([]byte, error) {
	type alias MehfilCoordinator
	return json.Marshal(struct {
		alias
		WeekdayColumns
	}{alias(m), NewWeekdayColumns(m.Slots)})
}

func (m *MehfilCoordinator) UnmarshalJSON(b []byte) error {
	type alias MehfilCoordinator
	aux := struct {
		*alias
		WeekdayColumns
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.Slots = aux.WeekdayColumns.Slots()
	return nil
}
