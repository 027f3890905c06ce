package coordinator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mehfilportal/admin-api/internal/email"
	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	"github.com/mehfilportal/admin-api/internal/service/scope"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

type CoordinatorServicer interface {
	Assign(ctx context.Context, actor *model.Karkun, mehfilID uuid.UUID, coordinatorType model.CoordinatorType, userID *uuid.UUID, slots model.WeekdaySlots) (*model.MehfilCoordinator, error)
	GetActiveByMehfil(ctx context.Context, mehfilID uuid.UUID) ([]*model.MehfilCoordinator, error)
	Remove(ctx context.Context, actor *model.Karkun, id uuid.UUID) error
	List(ctx context.Context, filter repository.CoordinatorFilter) ([]*model.MehfilCoordinator, int, error)
	Taxonomy() []model.CoordinatorCategory
}

type Service struct {
	repo       repository.CoordinatorRepository
	typeRepo   repository.DutyTypeRepository
	directory  repository.DirectoryRepository
	authorizer scope.Authorizer
	outbox     repository.OutboxRepository
	mailer     email.Service
}

func NewService(
	repo repository.CoordinatorRepository,
	typeRepo repository.DutyTypeRepository,
	directory repository.DirectoryRepository,
	authorizer scope.Authorizer,
	outbox repository.OutboxRepository,
	mailer email.Service,
) *Service {
	return &Service{
		repo:       repo,
		typeRepo:   typeRepo,
		directory:  directory,
		authorizer: authorizer,
		outbox:     outbox,
		mailer:     mailer,
	}
}

// Assign replaces the holder of a (mehfil, coordinator_type) slot. A
// nil userID unassigns the slot without inserting a replacement. The
// replace itself is one transaction in the repository, so concurrent
// assigns for the same slot leave exactly one winner.
func (s *Service) Assign(ctx context.Context, actor *model.Karkun, mehfilID uuid.UUID, coordinatorType model.CoordinatorType, userID *uuid.UUID, slots model.WeekdaySlots) (*model.MehfilCoordinator, error) {
	if !coordinatorType.Valid() {
		return nil, apperrors.Validation("invalid coordinator type", nil)
	}

	mehfil, err := s.directory.GetMehfil(ctx, mehfilID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Validation("mehfil does not exist", err)
		}
		return nil, fmt.Errorf("failed to resolve mehfil: %w", err)
	}

	if err := s.authorizer.Authorize(ctx, actor, nil, &mehfilID); err != nil {
		return nil, err
	}

	if userID == nil {
		if err := s.repo.DeleteSlot(ctx, mehfilID, coordinatorType); err != nil {
			return nil, fmt.Errorf("failed to unassign coordinator: %w", err)
		}
		s.recordEvent(ctx, model.EventCoordinatorUnset, map[string]interface{}{
			"mehfil_directory_id": mehfilID,
			"coordinator_type":    coordinatorType,
		})
		return nil, nil
	}

	karkun, err := s.directory.GetKarkun(ctx, *userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Validation("user does not exist", err)
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	// Coordinator duty slots follow the mehfil's zone.
	for _, dutyTypeID := range slots {
		dt, err := s.typeRepo.Get(ctx, dutyTypeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.NotFound("duty type", err)
			}
			return nil, fmt.Errorf("failed to get duty type: %w", err)
		}
		if dt.ZoneID != mehfil.ZoneID {
			return nil, apperrors.ScopeMismatch("duty type belongs to a different zone")
		}
	}

	coord := &model.MehfilCoordinator{
		MehfilDirectoryID: mehfilID,
		UserID:            *userID,
		CoordinatorType:   coordinatorType,
		Slots:             slots,
	}

	payload, err := json.Marshal(coord)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal coordinator event: %w", err)
	}
	event := &model.OutboxEvent{
		EventType: model.EventCoordinatorSet,
		Payload:   payload,
	}

	if err := s.repo.Replace(ctx, coord, event); err != nil {
		return nil, fmt.Errorf("failed to assign coordinator: %w", err)
	}

	if karkun.Email != nil {
		if err := s.mailer.SendCoordinatorAssigned(ctx, *karkun.Email, karkun.Name, mehfil.Name, coordinatorType); err != nil {
			log.Warn().Err(err).Str("karkun_id", karkun.ID.String()).Msg("failed to send coordinator notification")
		}
	}

	return coord, nil
}

func (s *Service) GetActiveByMehfil(ctx context.Context, mehfilID uuid.UUID) ([]*model.MehfilCoordinator, error) {
	coords, err := s.repo.ListActiveByMehfil(ctx, mehfilID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}
	return coords, nil
}

func (s *Service) Remove(ctx context.Context, actor *model.Karkun, id uuid.UUID) error {
	coord, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("coordinator", err)
		}
		return fmt.Errorf("failed to get coordinator: %w", err)
	}

	if err := s.authorizer.Authorize(ctx, actor, nil, &coord.MehfilDirectoryID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("coordinator", err)
		}
		return fmt.Errorf("failed to delete coordinator: %w", err)
	}

	s.recordEvent(ctx, model.EventCoordinatorUnset, map[string]interface{}{
		"mehfil_directory_id": coord.MehfilDirectoryID,
		"coordinator_type":    coord.CoordinatorType,
	})
	return nil
}

func (s *Service) List(ctx context.Context, filter repository.CoordinatorFilter) ([]*model.MehfilCoordinator, int, error) {
	filter.Normalize()
	coords, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coordinators: %w", err)
	}
	return coords, total, nil
}

func (s *Service) Taxonomy() []model.CoordinatorCategory {
	return model.CoordinatorTaxonomy()
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
