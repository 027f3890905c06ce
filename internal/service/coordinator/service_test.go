package coordinator

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

type fakeCoordRepo struct {
	coords map[uuid.UUID]*model.MehfilCoordinator
	events []*model.OutboxEvent
}

func newFakeCoordRepo() *fakeCoordRepo {
	return &fakeCoordRepo{coords: map[uuid.UUID]*model.MehfilCoordinator{}}
}

func (f *fakeCoordRepo) Replace(_ context.Context, coord *model.MehfilCoordinator, event *model.OutboxEvent) error {
	for id, c := range f.coords {
		if c.MehfilDirectoryID == coord.MehfilDirectoryID && c.CoordinatorType == coord.CoordinatorType {
			delete(f.coords, id)
		}
	}
	coord.ID = uuid.New()
	f.coords[coord.ID] = coord
	if event != nil {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeCoordRepo) DeleteSlot(_ context.Context, mehfilID uuid.UUID, coordinatorType model.CoordinatorType) error {
	for id, c := range f.coords {
		if c.MehfilDirectoryID == mehfilID && c.CoordinatorType == coordinatorType {
			delete(f.coords, id)
		}
	}
	return nil
}

func (f *fakeCoordRepo) Get(_ context.Context, id uuid.UUID) (*model.MehfilCoordinator, error) {
	if c, ok := f.coords[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCoordRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.coords[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.coords, id)
	return nil
}

func (f *fakeCoordRepo) ListActiveByMehfil(_ context.Context, mehfilID uuid.UUID) ([]*model.MehfilCoordinator, error) {
	out := []*model.MehfilCoordinator{}
	for _, c := range f.coords {
		if c.MehfilDirectoryID == mehfilID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCoordRepo) List(_ context.Context, _ repository.CoordinatorFilter) ([]*model.MehfilCoordinator, int, error) {
	out := make([]*model.MehfilCoordinator, 0, len(f.coords))
	for _, c := range f.coords {
		out = append(out, c)
	}
	return out, len(out), nil
}

type fakeTypeRepo struct {
	types map[uuid.UUID]*model.DutyType
}

func (f *fakeTypeRepo) Create(context.Context, *model.DutyType) error { return nil }

func (f *fakeTypeRepo) Get(_ context.Context, id uuid.UUID) (*model.DutyType, error) {
	if dt, ok := f.types[id]; ok {
		return dt, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTypeRepo) Update(context.Context, *model.DutyType) error { return nil }
func (f *fakeTypeRepo) Delete(context.Context, uuid.UUID) error       { return nil }

func (f *fakeTypeRepo) ListActive(context.Context, *uuid.UUID) ([]*model.DutyType, error) {
	return nil, nil
}

func (f *fakeTypeRepo) CountReferences(context.Context, uuid.UUID) (int, error) { return 0, nil }

type fakeDirectory struct {
	mehfils map[uuid.UUID]*model.MehfilDirectory
	karkuns map[uuid.UUID]*model.Karkun
}

func (f *fakeDirectory) GetZone(context.Context, uuid.UUID) (*model.Zone, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeDirectory) ListZones(context.Context) ([]*model.Zone, error) { return nil, nil }

func (f *fakeDirectory) GetMehfil(_ context.Context, id uuid.UUID) (*model.MehfilDirectory, error) {
	if m, ok := f.mehfils[id]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDirectory) ListMehfils(context.Context, *uuid.UUID) ([]*model.MehfilDirectory, error) {
	return nil, nil
}

func (f *fakeDirectory) GetKarkun(_ context.Context, id uuid.UUID) (*model.Karkun, error) {
	if k, ok := f.karkuns[id]; ok {
		return k, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDirectory) ListKarkuns(context.Context, string, model.Pagination) ([]*model.Karkun, int, error) {
	return nil, 0, nil
}

type allowAll struct{}

func (allowAll) Authorize(context.Context, *model.Karkun, *uuid.UUID, *uuid.UUID) error {
	return nil
}

type fakeOutbox struct {
	events []*model.OutboxEvent
}

func (f *fakeOutbox) Create(_ context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutbox) CreateTx(_ context.Context, _ *sqlx.Tx, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutbox) GetPendingEventsWithLock(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string) error {
	return nil
}

func (f *fakeOutbox) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendCoordinatorAssigned(_ context.Context, to, _, _ string, _ model.CoordinatorType) error {
	f.sent = append(f.sent, to)
	return nil
}

type fixture struct {
	svc      *Service
	repo     *fakeCoordRepo
	outbox   *fakeOutbox
	mailer   *fakeMailer
	types    *fakeTypeRepo
	dir      *fakeDirectory
	zoneID   uuid.UUID
	mehfilID uuid.UUID
	userID   uuid.UUID
	actor    *model.Karkun
}

func newFixture() *fixture {
	f := &fixture{
		repo:   newFakeCoordRepo(),
		outbox: &fakeOutbox{},
		mailer: &fakeMailer{},
		types:  &fakeTypeRepo{types: map[uuid.UUID]*model.DutyType{}},
	}
	f.zoneID = uuid.New()
	f.mehfilID = uuid.New()
	f.userID = uuid.New()

	email := "ahmed@example.org"
	f.dir = &fakeDirectory{
		mehfils: map[uuid.UUID]*model.MehfilDirectory{
			f.mehfilID: {ID: f.mehfilID, ZoneID: f.zoneID, Name: "City Mehfil"},
		},
		karkuns: map[uuid.UUID]*model.Karkun{
			f.userID: {ID: f.userID, Name: "Ahmed", Email: &email},
		},
	}

	f.actor = &model.Karkun{ID: uuid.New(), Name: "Admin", IsSuperAdmin: true}
	f.svc = NewService(f.repo, f.types, f.dir, allowAll{}, f.outbox, f.mailer)
	return f
}

func TestAssignCoordinator(t *testing.T) {
	f := newFixture()

	coord, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, &f.userID, nil)
	require.NoError(t, err)
	require.NotNil(t, coord)
	assert.Equal(t, f.userID, coord.UserID)
	assert.Len(t, f.repo.coords, 1)

	require.Len(t, f.repo.events, 1, "assign event rides the replace transaction")
	assert.Equal(t, model.EventCoordinatorSet, f.repo.events[0].EventType)
	assert.Equal(t, []string{"ahmed@example.org"}, f.mailer.sent)
}

func TestReassignLeavesSingleHolder(t *testing.T) {
	f := newFixture()

	replacement := uuid.New()
	f.dir.karkuns[replacement] = &model.Karkun{ID: replacement, Name: "Bilal"}

	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorTarbiyatMain, &f.userID, nil)
	require.NoError(t, err)
	coord, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorTarbiyatMain, &replacement, nil)
	require.NoError(t, err)

	require.Len(t, f.repo.coords, 1, "exactly one active row per slot")
	assert.Equal(t, replacement, coord.UserID)
}

func TestAssignDifferentSlotsCoexist(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, &f.userID, nil)
	require.NoError(t, err)
	_, err = f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilSub1, &f.userID, nil)
	require.NoError(t, err)

	assert.Len(t, f.repo.coords, 2, "the same user may hold several slots")
}

func TestAssignInvalidType(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, "chief_coordinator", &f.userID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAssignUnknownMehfil(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Assign(context.Background(), f.actor, uuid.New(), model.CoordinatorMehfilMain, &f.userID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAssignUnknownUser(t *testing.T) {
	f := newFixture()
	unknown := uuid.New()
	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, &unknown, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAssignWithSlots(t *testing.T) {
	f := newFixture()

	dt := &model.DutyType{Base: model.Base{ID: uuid.New()}, ZoneID: f.zoneID, Name: "Tajweed"}
	f.types.types[dt.ID] = dt

	coord, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorTajweedMain, &f.userID,
		model.WeekdaySlots{model.Sunday: dt.ID})
	require.NoError(t, err)
	assert.Equal(t, dt.ID, coord.Slots[model.Sunday])
}

func TestAssignSlotsWrongZone(t *testing.T) {
	f := newFixture()

	foreign := &model.DutyType{Base: model.Base{ID: uuid.New()}, ZoneID: uuid.New(), Name: "Other"}
	f.types.types[foreign.ID] = foreign

	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorTajweedMain, &f.userID,
		model.WeekdaySlots{model.Sunday: foreign.ID})
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))
}

func TestUnassignCoordinator(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, &f.userID, nil)
	require.NoError(t, err)

	coord, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, coord)
	assert.Empty(t, f.repo.coords)

	require.NotEmpty(t, f.outbox.events)
	assert.Equal(t, model.EventCoordinatorUnset, f.outbox.events[len(f.outbox.events)-1].EventType)
}

func TestRemoveCoordinator(t *testing.T) {
	f := newFixture()

	coord, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, &f.userID, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(context.Background(), f.actor, coord.ID))
	assert.Empty(t, f.repo.coords)

	err = f.svc.Remove(context.Background(), f.actor, coord.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGetActiveByMehfil(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Assign(context.Background(), f.actor, f.mehfilID, model.CoordinatorMehfilMain, &f.userID, nil)
	require.NoError(t, err)

	coords, err := f.svc.GetActiveByMehfil(context.Background(), f.mehfilID)
	require.NoError(t, err)
	assert.Len(t, coords, 1)

	coords, err = f.svc.GetActiveByMehfil(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, coords)
}

func TestTaxonomy(t *testing.T) {
	f := newFixture()
	taxonomy := f.svc.Taxonomy()
	require.Len(t, taxonomy, 5)
	assert.Equal(t, "Mehfil", taxonomy[0].Name)
}
