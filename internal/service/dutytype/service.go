package dutytype

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	"github.com/mehfilportal/admin-api/internal/service/scope"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

type DutyTypeServicer interface {
	Create(ctx context.Context, actor *model.Karkun, dt *model.DutyType) error
	Get(ctx context.Context, id uuid.UUID) (*model.DutyType, error)
	Update(ctx context.Context, actor *model.Karkun, id uuid.UUID, patch model.DutyTypePatch) (*model.DutyType, error)
	Delete(ctx context.Context, actor *model.Karkun, id uuid.UUID) error
	ListActive(ctx context.Context, zoneID *uuid.UUID) ([]*model.DutyType, error)
}

type Service struct {
	repo       repository.DutyTypeRepository
	directory  repository.DirectoryRepository
	authorizer scope.Authorizer
	outbox     repository.OutboxRepository
}

func NewService(
	repo repository.DutyTypeRepository,
	directory repository.DirectoryRepository,
	authorizer scope.Authorizer,
	outbox repository.OutboxRepository,
) *Service {
	return &Service{
		repo:       repo,
		directory:  directory,
		authorizer: authorizer,
		outbox:     outbox,
	}
}

func (s *Service) Create(ctx context.Context, actor *model.Karkun, dt *model.DutyType) error {
	if err := s.validate(dt); err != nil {
		return err
	}

	if _, err := s.directory.GetZone(ctx, dt.ZoneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Validation("zone does not exist", err)
		}
		return fmt.Errorf("failed to resolve zone: %w", err)
	}

	if err := s.authorizer.Authorize(ctx, actor, &dt.ZoneID, nil); err != nil {
		return err
	}

	// Admin-created types are always editable; locked rows are seeded.
	dt.IsEditable = true

	if err := s.repo.Create(ctx, dt); err != nil {
		return fmt.Errorf("failed to create duty type: %w", err)
	}

	s.recordEvent(ctx, model.EventDutyTypeCreate, dt)
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DutyType, error) {
	dt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("duty type", err)
		}
		return nil, fmt.Errorf("failed to get duty type: %w", err)
	}
	return dt, nil
}

func (s *Service) Update(ctx context.Context, actor *model.Karkun, id uuid.UUID, patch model.DutyTypePatch) (*model.DutyType, error) {
	dt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The editability lock precedes the permission check: a locked
	// type is immutable for every caller.
	if !dt.IsEditable {
		return nil, apperrors.Locked("duty type is not editable")
	}

	if err := s.authorizer.Authorize(ctx, actor, &dt.ZoneID, nil); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		dt.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		dt.Description = patch.Description
	}
	if patch.IsHidden != nil {
		dt.IsHidden = *patch.IsHidden
	}

	if err := s.validate(dt); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, dt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("duty type", err)
		}
		return nil, fmt.Errorf("failed to update duty type: %w", err)
	}

	s.recordEvent(ctx, model.EventDutyTypeUpdate, dt)
	return dt, nil
}

func (s *Service) Delete(ctx context.Context, actor *model.Karkun, id uuid.UUID) error {
	dt, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !dt.IsEditable {
		return apperrors.Locked("duty type is not editable")
	}

	if err := s.authorizer.Authorize(ctx, actor, &dt.ZoneID, nil); err != nil {
		return err
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count duty type references: %w", err)
	}
	if refs > 0 {
		return apperrors.Conflict("duty type is assigned in active rosters", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("duty type", err)
		}
		return fmt.Errorf("failed to delete duty type: %w", err)
	}

	s.recordEvent(ctx, model.EventDutyTypeDelete, map[string]interface{}{"id": id})
	return nil
}

func (s *Service) ListActive(ctx context.Context, zoneID *uuid.UUID) ([]*model.DutyType, error) {
	types, err := s.repo.ListActive(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list duty types: %w", err)
	}
	return types, nil
}

func (s *Service) validate(dt *model.DutyType) error {
	dt.Name = strings.TrimSpace(dt.Name)
	if dt.Name == "" {
		return apperrors.Validation("duty type name is required", nil)
	}
	if len(dt.Name) > model.DutyTypeNameMaxLength {
		return apperrors.Validation("duty type name is too long", nil)
	}
	if dt.ZoneID == uuid.Nil {
		return apperrors.Validation("zone is required", nil)
	}
	return nil
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
