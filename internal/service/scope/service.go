package scope

import (
	"context"

	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

// Authorizer re-checks scope at the write boundary. The descriptor
// returned by Resolve is advisory for the UI; writes never trust
// client-supplied scope alone.
type Authorizer interface {
	Authorize(ctx context.Context, actor *model.Karkun, zoneID, mehfilID *uuid.UUID) error
}

// Resolve derives the capability descriptor from the actor's role flags
// and scope fields. Pure: no I/O, no side effects. The zone and mehfil
// directories are passed in by the caller.
func Resolve(actor *model.Karkun, zones []*model.Zone, mehfils []*model.MehfilDirectory) model.ScopeDescriptor {
	switch {
	case actor.IsSuperAdmin:
		return model.ScopeDescriptor{
			Unrestricted:    true,
			CanChooseRegion: true,
			CanChooseZone:   true,
			CanChooseMehfil: true,
		}

	case actor.IsRegionAdmin:
		d := model.ScopeDescriptor{
			CanChooseZone:    true,
			CanChooseMehfil:  true,
			AllowedZoneIDs:   []uuid.UUID{},
			AllowedMehfilIDs: []uuid.UUID{},
		}
		allowed := make(map[uuid.UUID]bool)
		for _, z := range zones {
			for _, rid := range actor.RegionIDs {
				if z.RegionID == rid {
					d.AllowedZoneIDs = append(d.AllowedZoneIDs, z.ID)
					allowed[z.ID] = true
					break
				}
			}
		}
		for _, m := range mehfils {
			if allowed[m.ZoneID] {
				d.AllowedMehfilIDs = append(d.AllowedMehfilIDs, m.ID)
			}
		}
		return d

	case actor.IsZoneAdmin && actor.ZoneID != nil:
		// Zone is fixed to the admin's own; only the mehfil is choosable.
		d := model.ScopeDescriptor{
			CanChooseMehfil:  true,
			AllowedZoneIDs:   []uuid.UUID{*actor.ZoneID},
			AllowedMehfilIDs: []uuid.UUID{},
		}
		for _, m := range mehfils {
			if m.ZoneID == *actor.ZoneID {
				d.AllowedMehfilIDs = append(d.AllowedMehfilIDs, m.ID)
			}
		}
		return d

	case actor.IsMehfilAdmin && actor.MehfilDirectoryID != nil:
		d := model.ScopeDescriptor{
			AllowedMehfilIDs: []uuid.UUID{*actor.MehfilDirectoryID},
		}
		if actor.ZoneID != nil {
			d.AllowedZoneIDs = []uuid.UUID{*actor.ZoneID}
		}
		return d
	}

	// No administrative role: nothing is in scope.
	return model.ScopeDescriptor{
		AllowedZoneIDs:   []uuid.UUID{},
		AllowedMehfilIDs: []uuid.UUID{},
	}
}

// Service enforces scope against the live directory.
type Service struct {
	directory repository.DirectoryRepository
}

func NewService(directory repository.DirectoryRepository) *Service {
	return &Service{directory: directory}
}

// Descriptor resolves the advisory descriptor for an actor.
func (s *Service) Descriptor(ctx context.Context, actor *model.Karkun) (model.ScopeDescriptor, error) {
	if actor.IsSuperAdmin {
		return Resolve(actor, nil, nil), nil
	}

	zones, err := s.directory.ListZones(ctx)
	if err != nil {
		return model.ScopeDescriptor{}, err
	}
	mehfils, err := s.directory.ListMehfils(ctx, nil)
	if err != nil {
		return model.ScopeDescriptor{}, err
	}
	return Resolve(actor, zones, mehfils), nil
}

// Authorize verifies the actor may act on the given zone and/or mehfil.
// Checks go against the directory rather than a cached descriptor so a
// revoked scope takes effect immediately.
func (s *Service) Authorize(ctx context.Context, actor *model.Karkun, zoneID, mehfilID *uuid.UUID) error {
	if actor == nil {
		return apperrors.ScopeMismatch("no acting user")
	}
	if actor.IsSuperAdmin {
		return nil
	}

	if actor.IsMehfilAdmin && !actor.IsZoneAdmin && !actor.IsRegionAdmin && mehfilID == nil {
		return apperrors.ScopeMismatch("mehfil admins may only act on their own mehfil")
	}

	if zoneID != nil {
		ok, err := s.zoneInScope(ctx, actor, *zoneID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ScopeMismatch("zone is outside your administrative scope")
		}
	}

	if mehfilID != nil {
		ok, err := s.mehfilInScope(ctx, actor, *mehfilID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.ScopeMismatch("mehfil is outside your administrative scope")
		}
	}

	if zoneID == nil && mehfilID == nil && !actor.IsRegionAdmin {
		// Unscoped targets (e.g. global rosters) are reserved for
		// region-level admins and above.
		return apperrors.ScopeMismatch("global scope requires region-level administration")
	}

	return nil
}

func (s *Service) zoneInScope(ctx context.Context, actor *model.Karkun, zoneID uuid.UUID) (bool, error) {
	switch {
	case actor.IsRegionAdmin:
		zone, err := s.directory.GetZone(ctx, zoneID)
		if err != nil {
			return false, err
		}
		for _, rid := range actor.RegionIDs {
			if zone.RegionID == rid {
				return true, nil
			}
		}
		return false, nil
	case actor.IsZoneAdmin, actor.IsMehfilAdmin:
		return actor.ZoneID != nil && *actor.ZoneID == zoneID, nil
	}
	return false, nil
}

func (s *Service) mehfilInScope(ctx context.Context, actor *model.Karkun, mehfilID uuid.UUID) (bool, error) {
	switch {
	case actor.IsRegionAdmin:
		mehfil, err := s.directory.GetMehfil(ctx, mehfilID)
		if err != nil {
			return false, err
		}
		return s.zoneInScope(ctx, actor, mehfil.ZoneID)
	case actor.IsZoneAdmin:
		mehfil, err := s.directory.GetMehfil(ctx, mehfilID)
		if err != nil {
			return false, err
		}
		return actor.ZoneID != nil && *actor.ZoneID == mehfil.ZoneID, nil
	case actor.IsMehfilAdmin:
		return actor.MehfilDirectoryID != nil && *actor.MehfilDirectoryID == mehfilID, nil
	}
	return false, nil
}
