package model

import (
	"github.com/google/uuid"
)

// DutyTypeNameMaxLength caps duty type names at the portal's column size.
const DutyTypeNameMaxLength = 100

// DutyType is a named category of recurring weekly responsibility,
// scoped to a single zone.
type DutyType struct {
	Base
	ZoneID      uuid.UUID `json:"zone_id" db:"zone_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	// IsEditable=false is a hard lock: the row can never be mutated or
	// deleted, regardless of the caller's role.
	IsEditable bool `json:"is_editable" db:"is_editable"`
	// Hidden types are excluded from selection lists but stay
	// resolvable so historical rosters keep rendering.
	IsHidden bool `json:"is_hidden" db:"is_hidden"`
}

// DutyTypePatch carries the mutable fields of a duty type.
type DutyTypePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsHidden    *bool   `json:"is_hidden"`
}
