package roster

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	"github.com/mehfilportal/admin-api/internal/service/scope"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

type RosterServicer interface {
	CreateRoster(ctx context.Context, actor *model.Karkun, userID uuid.UUID, zoneID, mehfilID *uuid.UUID) (*model.DutyRoster, error)
	AssignDuty(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID, day string, dutyTypeID uuid.UUID) (*model.DutyRoster, error)
	ClearDuty(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID, day string) (*model.DutyRoster, error)
	UpdateSlots(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID, slots model.WeekdaySlots) (*model.DutyRoster, error)
	RemoveRoster(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID) error
	ListByScope(ctx context.Context, actor *model.Karkun, filter repository.RosterFilter) ([]model.UserWeek, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.DutyRoster, error)
}

type Service struct {
	repo       repository.DutyRosterRepository
	coordRepo  repository.CoordinatorRepository
	typeRepo   repository.DutyTypeRepository
	directory  repository.DirectoryRepository
	authorizer scope.Authorizer
	outbox     repository.OutboxRepository
}

func NewService(
	repo repository.DutyRosterRepository,
	coordRepo repository.CoordinatorRepository,
	typeRepo repository.DutyTypeRepository,
	directory repository.DirectoryRepository,
	authorizer scope.Authorizer,
	outbox repository.OutboxRepository,
) *Service {
	return &Service{
		repo:       repo,
		coordRepo:  coordRepo,
		typeRepo:   typeRepo,
		directory:  directory,
		authorizer: authorizer,
		outbox:     outbox,
	}
}

func (s *Service) CreateRoster(ctx context.Context, actor *model.Karkun, userID uuid.UUID, zoneID, mehfilID *uuid.UUID) (*model.DutyRoster, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Validation("user is required", nil)
	}
	if _, err := s.directory.GetKarkun(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Validation("user does not exist", err)
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if mehfilID != nil {
		mehfil, err := s.directory.GetMehfil(ctx, *mehfilID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.Validation("mehfil does not exist", err)
			}
			return nil, fmt.Errorf("failed to resolve mehfil: %w", err)
		}
		if zoneID != nil && mehfil.ZoneID != *zoneID {
			return nil, apperrors.Validation("mehfil does not belong to the selected zone", nil)
		}
	}
	if zoneID != nil {
		if _, err := s.directory.GetZone(ctx, *zoneID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.Validation("zone does not exist", err)
			}
			return nil, fmt.Errorf("failed to resolve zone: %w", err)
		}
	}

	if err := s.authorizer.Authorize(ctx, actor, zoneID, mehfilID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForScope(ctx, userID, zoneID, mehfilID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing roster: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("a roster already exists for this user and scope", nil)
	}

	// A roster with no assigned days is valid: created now, configured
	// day by day afterwards.
	roster := &model.DutyRoster{
		UserID:            userID,
		ZoneID:            zoneID,
		MehfilDirectoryID: mehfilID,
		Slots:             model.WeekdaySlots{},
	}
	if err := s.repo.Create(ctx, roster); err != nil {
		return nil, fmt.Errorf("failed to create roster: %w", err)
	}

	s.recordEvent(ctx, model.EventRosterCreate, roster)
	return roster, nil
}

func (s *Service) getAuthorized(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID) (*model.DutyRoster, error) {
	roster, err := s.repo.Get(ctx, rosterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("duty roster", err)
		}
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	if err := s.authorizer.Authorize(ctx, actor, roster.ZoneID, roster.MehfilDirectoryID); err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *Service) AssignDuty(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID, day string, dutyTypeID uuid.UUID) (*model.DutyRoster, error) {
	weekday, err := model.ParseWeekday(day)
	if err != nil {
		return nil, apperrors.Validation("invalid day of week", err)
	}

	roster, err := s.getAuthorized(ctx, actor, rosterID)
	if err != nil {
		return nil, err
	}

	if err := s.checkDutyTypeZone(ctx, dutyTypeID, roster); err != nil {
		return nil, err
	}

	// Last write wins for the day slot; no history is kept.
	if err := s.repo.SetDaySlot(ctx, rosterID, weekday, &dutyTypeID); err != nil {
		return nil, fmt.Errorf("failed to assign duty: %w", err)
	}
	roster.Slots[weekday] = dutyTypeID

	s.recordEvent(ctx, model.EventDutyAssign, map[string]interface{}{
		"roster_id":    rosterID,
		"day":          weekday,
		"duty_type_id": dutyTypeID,
	})
	return roster, nil
}

func (s *Service) ClearDuty(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID, day string) (*model.DutyRoster, error) {
	weekday, err := model.ParseWeekday(day)
	if err != nil {
		return nil, apperrors.Validation("invalid day of week", err)
	}

	roster, err := s.getAuthorized(ctx, actor, rosterID)
	if err != nil {
		return nil, err
	}

	// Idempotent: clearing an empty slot is a no-op.
	if err := s.repo.SetDaySlot(ctx, rosterID, weekday, nil); err != nil {
		return nil, fmt.Errorf("failed to clear duty: %w", err)
	}
	delete(roster.Slots, weekday)

	s.recordEvent(ctx, model.EventDutyClear, map[string]interface{}{
		"roster_id": rosterID,
		"day":       weekday,
	})
	return roster, nil
}

// UpdateSlots applies a full week of slots from the portal's edit form.
// Each day is written as its own column update; days absent from slots
// are cleared.
func (s *Service) UpdateSlots(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID, slots model.WeekdaySlots) (*model.DutyRoster, error) {
	roster, err := s.getAuthorized(ctx, actor, rosterID)
	if err != nil {
		return nil, err
	}

	for _, id := range slots {
		if err := s.checkDutyTypeZone(ctx, id, roster); err != nil {
			return nil, err
		}
	}

	for _, day := range model.AllWeekdays {
		if id, ok := slots[day]; ok {
			if err := s.repo.SetDaySlot(ctx, rosterID, day, &id); err != nil {
				return nil, fmt.Errorf("failed to update day slot: %w", err)
			}
			roster.Slots[day] = id
		} else {
			if err := s.repo.SetDaySlot(ctx, rosterID, day, nil); err != nil {
				return nil, fmt.Errorf("failed to clear day slot: %w", err)
			}
			delete(roster.Slots, day)
		}
	}

	s.recordEvent(ctx, model.EventDutyAssign, roster)
	return roster, nil
}

func (s *Service) RemoveRoster(ctx context.Context, actor *model.Karkun, rosterID uuid.UUID) error {
	if _, err := s.getAuthorized(ctx, actor, rosterID); err != nil {
		return err
	}

	// A roster is one row; deleting it drops all day slots atomically.
	if err := s.repo.Delete(ctx, rosterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("duty roster", err)
		}
		return fmt.Errorf("failed to delete roster: %w", err)
	}

	s.recordEvent(ctx, model.EventRosterDelete, map[string]interface{}{"id": rosterID})
	return nil
}

func (s *Service) ListByScope(ctx context.Context, actor *model.Karkun, filter repository.RosterFilter) ([]model.UserWeek, int, error) {
	filter.Normalize()

	if err := s.authorizer.Authorize(ctx, actor, filter.ZoneID, filter.MehfilDirectoryID); err != nil {
		return nil, 0, err
	}

	rosters, total, err := s.repo.ListByScope(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rosters: %w", err)
	}

	// Coordinators carry weekly duties too; fold them into the grid
	// when the listing targets a single mehfil.
	var coords []*model.MehfilCoordinator
	if filter.MehfilDirectoryID != nil {
		coords, err = s.coordRepo.ListActiveByMehfil(ctx, *filter.MehfilDirectoryID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list coordinators: %w", err)
		}
	}

	refs, err := s.loadReferences(ctx, rosters, coords)
	if err != nil {
		return nil, 0, err
	}

	return Consolidate(rosters, coords, refs), total, nil
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.DutyRoster, error) {
	rosters, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters for user: %w", err)
	}
	return rosters, nil
}

// checkDutyTypeZone enforces that a duty type is only assigned inside
// its own zone's rosters.
func (s *Service) checkDutyTypeZone(ctx context.Context, dutyTypeID uuid.UUID, roster *model.DutyRoster) error {
	dt, err := s.typeRepo.Get(ctx, dutyTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("duty type", err)
		}
		return fmt.Errorf("failed to get duty type: %w", err)
	}
	if roster.ZoneID == nil || *roster.ZoneID != dt.ZoneID {
		return apperrors.ScopeMismatch("duty type belongs to a different zone")
	}
	return nil
}

// loadReferences resolves the karkun, duty type and mehfil names needed
// by the consolidated view.
func (s *Service) loadReferences(ctx context.Context, rosters []*model.DutyRoster, coords []*model.MehfilCoordinator) (References, error) {
	refs := References{
		Karkuns:   map[uuid.UUID]*model.Karkun{},
		DutyTypes: map[uuid.UUID]*model.DutyType{},
		Mehfils:   map[uuid.UUID]*model.MehfilDirectory{},
	}

	addKarkun := func(id uuid.UUID) error {
		if _, ok := refs.Karkuns[id]; ok {
			return nil
		}
		k, err := s.directory.GetKarkun(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resolve karkun: %w", err)
		}
		refs.Karkuns[id] = k
		return nil
	}
	addDutyType := func(id uuid.UUID) error {
		if _, ok := refs.DutyTypes[id]; ok {
			return nil
		}
		dt, err := s.typeRepo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resolve duty type: %w", err)
		}
		refs.DutyTypes[id] = dt
		return nil
	}
	addMehfil := func(id uuid.UUID) error {
		if _, ok := refs.Mehfils[id]; ok {
			return nil
		}
		m, err := s.directory.GetMehfil(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to resolve mehfil: %w", err)
		}
		refs.Mehfils[id] = m
		return nil
	}

	for _, r := range rosters {
		if err := addKarkun(r.UserID); err != nil {
			return refs, err
		}
		if r.MehfilDirectoryID != nil {
			if err := addMehfil(*r.MehfilDirectoryID); err != nil {
				return refs, err
			}
		}
		for _, id := range r.Slots {
			if err := addDutyType(id); err != nil {
				return refs, err
			}
		}
	}
	for _, c := range coords {
		if err := addKarkun(c.UserID); err != nil {
			return refs, err
		}
		if err := addMehfil(c.MehfilDirectoryID); err != nil {
			return refs, err
		}
		for _, id := range c.Slots {
			if err := addDutyType(id); err != nil {
				return refs, err
			}
		}
	}

	return refs, nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal outbox payload")
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   body,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to record outbox event")
	}
}
