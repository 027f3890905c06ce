package model

import (
	"github.com/google/uuid"
)

// ScopeDescriptor describes the organizational reach of an acting
// karkun. It is advisory for the UI and re-checked at every write
// boundary; client-supplied scope is never trusted on its own.
type ScopeDescriptor struct {
	// Unrestricted is set for super admins only: every zone and mehfil
	// is in scope and the allowed-id lists are left empty.
	Unrestricted bool `json:"unrestricted"`

	CanChooseRegion bool `json:"can_choose_region"`
	CanChooseZone   bool `json:"can_choose_zone"`
	CanChooseMehfil bool `json:"can_choose_mehfil"`

	AllowedZoneIDs   []uuid.UUID `json:"allowed_zone_ids"`
	AllowedMehfilIDs []uuid.UUID `json:"allowed_mehfil_ids"`
}

// AllowsZone reports whether the descriptor permits acting on a zone.
func (d ScopeDescriptor) AllowsZone(id uuid.UUID) bool {
	if d.Unrestricted {
		return true
	}
	for _, z := range d.AllowedZoneIDs {
		if z == id {
			return true
		}
	}
	return false
}

// AllowsMehfil reports whether the descriptor permits acting on a mehfil.
func (d ScopeDescriptor) AllowsMehfil(id uuid.UUID) bool {
	if d.Unrestricted {
		return true
	}
	for _, m := range d.AllowedMehfilIDs {
		if m == id {
			return true
		}
	}
	return false
}
