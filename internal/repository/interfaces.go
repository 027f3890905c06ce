package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mehfilportal/admin-api/internal/model"
)

// RosterFilter narrows roster listings to an organizational scope.
type RosterFilter struct {
	ZoneID            *uuid.UUID
	MehfilDirectoryID *uuid.UUID
	Search            string
	model.Pagination
}

// CoordinatorFilter narrows coordinator listings.
type CoordinatorFilter struct {
	MehfilDirectoryID *uuid.UUID
	Search            string
	model.Pagination
}

type DutyTypeRepository interface {
	Create(ctx context.Context, dt *model.DutyType) error
	Get(ctx context.Context, id uuid.UUID) (*model.DutyType, error)
	Update(ctx context.Context, dt *model.DutyType) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, zoneID *uuid.UUID) ([]*model.DutyType, error)
	// CountReferences counts roster and coordinator day slots pointing
	// at the duty type; a referenced type cannot be deleted.
	CountReferences(ctx context.Context, id uuid.UUID) (int, error)
}

type DutyRosterRepository interface {
	Create(ctx context.Context, roster *model.DutyRoster) error
	Get(ctx context.Context, id uuid.UUID) (*model.DutyRoster, error)
	ExistsForScope(ctx context.Context, userID uuid.UUID, zoneID, mehfilID *uuid.UUID) (bool, error)
	// SetDaySlot updates a single day column; nil clears the slot.
	SetDaySlot(ctx context.Context, rosterID uuid.UUID, day model.Weekday, dutyTypeID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByScope(ctx context.Context, filter RosterFilter) ([]*model.DutyRoster, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.DutyRoster, error)
}

type CoordinatorRepository interface {
	// Replace deactivates any existing holder of (mehfil, type) and
	// inserts coord in its place, in one transaction. The outbox event,
	// when non-nil, is recorded in the same transaction.
	Replace(ctx context.Context, coord *model.MehfilCoordinator, event *model.OutboxEvent) error
	// DeleteSlot removes the current holder of (mehfil, type), if any.
	DeleteSlot(ctx context.Context, mehfilID uuid.UUID, coordinatorType model.CoordinatorType) error
	Get(ctx context.Context, id uuid.UUID) (*model.MehfilCoordinator, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListActiveByMehfil(ctx context.Context, mehfilID uuid.UUID) ([]*model.MehfilCoordinator, error)
	List(ctx context.Context, filter CoordinatorFilter) ([]*model.MehfilCoordinator, int, error)
}

// DirectoryRepository reads the portal's reference data. The assignment
// core never writes through it.
type DirectoryRepository interface {
	GetZone(ctx context.Context, id uuid.UUID) (*model.Zone, error)
	ListZones(ctx context.Context) ([]*model.Zone, error)
	GetMehfil(ctx context.Context, id uuid.UUID) (*model.MehfilDirectory, error)
	ListMehfils(ctx context.Context, zoneID *uuid.UUID) ([]*model.MehfilDirectory, error)
	GetKarkun(ctx context.Context, id uuid.UUID) (*model.Karkun, error)
	ListKarkuns(ctx context.Context, search string, p model.Pagination) ([]*model.Karkun, int, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
	GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
