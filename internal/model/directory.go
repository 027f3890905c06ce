package model

import (
	"github.com/google/uuid"
)

// Directory entities are read-only reference data owned by the portal's
// zone/mehfil/karkun verticals. The assignment core fetches them by id
// and never mutates them.

// Zone is a mid-level administrative grouping of mehfils.
type Zone struct {
	ID       uuid.UUID `json:"id" db:"id"`
	RegionID uuid.UUID `json:"region_id" db:"region_id"`
	Name     string    `json:"name" db:"name"`
}

// MehfilDirectory is a local gathering venue, the leaf of the hierarchy.
type MehfilDirectory struct {
	ID      uuid.UUID `json:"id" db:"id"`
	ZoneID  uuid.UUID `json:"zone_id" db:"zone_id"`
	Name    string    `json:"name" db:"name"`
	Address *string   `json:"address,omitempty" db:"address"`
}

// Karkun is a member/worker who can hold duties and act as an
// administrator within their scope.
type Karkun struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Email             *string    `json:"email,omitempty" db:"email"`
	ZoneID            *uuid.UUID `json:"zone_id,omitempty" db:"zone_id"`
	MehfilDirectoryID *uuid.UUID `json:"mehfil_directory_id,omitempty" db:"mehfil_directory_id"`

	IsSuperAdmin  bool `json:"is_super_admin" db:"is_super_admin"`
	IsRegionAdmin bool `json:"is_region_admin" db:"is_region_admin"`
	IsZoneAdmin   bool `json:"is_zone_admin" db:"is_zone_admin"`
	IsMehfilAdmin bool `json:"is_mehfil_admin" db:"is_mehfil_admin"`

	// RegionIDs holds the regions a region admin administers, loaded
	// from the karkun_regions join table.
	RegionIDs []uuid.UUID `json:"region_ids,omitempty" db:"-"`
}
