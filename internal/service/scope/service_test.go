package scope

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehfilportal/admin-api/internal/model"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

type fakeDirectory struct {
	zones   map[uuid.UUID]*model.Zone
	mehfils map[uuid.UUID]*model.MehfilDirectory
	karkuns map[uuid.UUID]*model.Karkun
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		zones:   map[uuid.UUID]*model.Zone{},
		mehfils: map[uuid.UUID]*model.MehfilDirectory{},
		karkuns: map[uuid.UUID]*model.Karkun{},
	}
}

func (f *fakeDirectory) GetZone(_ context.Context, id uuid.UUID) (*model.Zone, error) {
	if z, ok := f.zones[id]; ok {
		return z, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDirectory) ListZones(_ context.Context) ([]*model.Zone, error) {
	out := make([]*model.Zone, 0, len(f.zones))
	for _, z := range f.zones {
		out = append(out, z)
	}
	return out, nil
}

func (f *fakeDirectory) GetMehfil(_ context.Context, id uuid.UUID) (*model.MehfilDirectory, error) {
	if m, ok := f.mehfils[id]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDirectory) ListMehfils(_ context.Context, zoneID *uuid.UUID) ([]*model.MehfilDirectory, error) {
	out := []*model.MehfilDirectory{}
	for _, m := range f.mehfils {
		if zoneID == nil || m.ZoneID == *zoneID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeDirectory) GetKarkun(_ context.Context, id uuid.UUID) (*model.Karkun, error) {
	if k, ok := f.karkuns[id]; ok {
		return k, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDirectory) ListKarkuns(_ context.Context, _ string, _ model.Pagination) ([]*model.Karkun, int, error) {
	out := make([]*model.Karkun, 0, len(f.karkuns))
	for _, k := range f.karkuns {
		out = append(out, k)
	}
	return out, len(out), nil
}

func TestResolveSuperAdmin(t *testing.T) {
	actor := &model.Karkun{IsSuperAdmin: true}
	d := Resolve(actor, nil, nil)
	assert.True(t, d.Unrestricted)
	assert.True(t, d.CanChooseRegion)
	assert.True(t, d.CanChooseZone)
	assert.True(t, d.CanChooseMehfil)
}

func TestResolveRegionAdmin(t *testing.T) {
	regionID := uuid.New()
	otherRegion := uuid.New()

	inZone := &model.Zone{ID: uuid.New(), RegionID: regionID}
	outZone := &model.Zone{ID: uuid.New(), RegionID: otherRegion}
	inMehfil := &model.MehfilDirectory{ID: uuid.New(), ZoneID: inZone.ID}
	outMehfil := &model.MehfilDirectory{ID: uuid.New(), ZoneID: outZone.ID}

	actor := &model.Karkun{IsRegionAdmin: true, RegionIDs: []uuid.UUID{regionID}}
	d := Resolve(actor,
		[]*model.Zone{inZone, outZone},
		[]*model.MehfilDirectory{inMehfil, outMehfil},
	)

	assert.False(t, d.Unrestricted)
	assert.True(t, d.CanChooseZone)
	assert.Equal(t, []uuid.UUID{inZone.ID}, d.AllowedZoneIDs)
	assert.Equal(t, []uuid.UUID{inMehfil.ID}, d.AllowedMehfilIDs)
}

func TestResolveZoneAdmin(t *testing.T) {
	zoneID := uuid.New()
	own := &model.MehfilDirectory{ID: uuid.New(), ZoneID: zoneID}
	foreign := &model.MehfilDirectory{ID: uuid.New(), ZoneID: uuid.New()}

	actor := &model.Karkun{IsZoneAdmin: true, ZoneID: &zoneID}
	d := Resolve(actor, nil, []*model.MehfilDirectory{own, foreign})

	assert.False(t, d.CanChooseZone, "zone is fixed for zone admins")
	assert.True(t, d.CanChooseMehfil)
	assert.Equal(t, []uuid.UUID{zoneID}, d.AllowedZoneIDs)
	assert.Equal(t, []uuid.UUID{own.ID}, d.AllowedMehfilIDs)
}

func TestResolveMehfilAdmin(t *testing.T) {
	zoneID := uuid.New()
	mehfilID := uuid.New()
	actor := &model.Karkun{IsMehfilAdmin: true, ZoneID: &zoneID, MehfilDirectoryID: &mehfilID}

	d := Resolve(actor, nil, nil)
	assert.False(t, d.CanChooseZone)
	assert.False(t, d.CanChooseMehfil)
	assert.Equal(t, []uuid.UUID{mehfilID}, d.AllowedMehfilIDs)
}

func TestResolveNoRole(t *testing.T) {
	d := Resolve(&model.Karkun{}, nil, nil)
	assert.False(t, d.Unrestricted)
	assert.Empty(t, d.AllowedZoneIDs)
	assert.Empty(t, d.AllowedMehfilIDs)
}

func TestAuthorizeSuperAdmin(t *testing.T) {
	svc := NewService(newFakeDirectory())
	zoneID := uuid.New()
	err := svc.Authorize(context.Background(), &model.Karkun{IsSuperAdmin: true}, &zoneID, nil)
	assert.NoError(t, err)
}

func TestAuthorizeZoneAdmin(t *testing.T) {
	dir := newFakeDirectory()
	zoneID := uuid.New()
	mehfil := &model.MehfilDirectory{ID: uuid.New(), ZoneID: zoneID}
	foreignMehfil := &model.MehfilDirectory{ID: uuid.New(), ZoneID: uuid.New()}
	dir.mehfils[mehfil.ID] = mehfil
	dir.mehfils[foreignMehfil.ID] = foreignMehfil

	svc := NewService(dir)
	actor := &model.Karkun{IsZoneAdmin: true, ZoneID: &zoneID}

	assert.NoError(t, svc.Authorize(context.Background(), actor, &zoneID, nil))
	assert.NoError(t, svc.Authorize(context.Background(), actor, &zoneID, &mehfil.ID))

	err := svc.Authorize(context.Background(), actor, &zoneID, &foreignMehfil.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))

	otherZone := uuid.New()
	err = svc.Authorize(context.Background(), actor, &otherZone, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))
}

func TestAuthorizeMehfilAdmin(t *testing.T) {
	dir := newFakeDirectory()
	zoneID := uuid.New()
	mehfilID := uuid.New()
	otherMehfil := uuid.New()

	svc := NewService(dir)
	actor := &model.Karkun{IsMehfilAdmin: true, ZoneID: &zoneID, MehfilDirectoryID: &mehfilID}

	assert.NoError(t, svc.Authorize(context.Background(), actor, nil, &mehfilID))

	err := svc.Authorize(context.Background(), actor, nil, &otherMehfil)
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))

	// A pure mehfil admin cannot act without naming a mehfil.
	err = svc.Authorize(context.Background(), actor, &zoneID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))
}

func TestAuthorizeGlobalScope(t *testing.T) {
	dir := newFakeDirectory()
	svc := NewService(dir)

	regionAdmin := &model.Karkun{IsRegionAdmin: true, RegionIDs: []uuid.UUID{uuid.New()}}
	assert.NoError(t, svc.Authorize(context.Background(), regionAdmin, nil, nil))

	zoneID := uuid.New()
	zoneAdmin := &model.Karkun{IsZoneAdmin: true, ZoneID: &zoneID}
	err := svc.Authorize(context.Background(), zoneAdmin, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))
}

func TestAuthorizeNilActor(t *testing.T) {
	svc := NewService(newFakeDirectory())
	err := svc.Authorize(context.Background(), nil, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrScopeMismatch))
}
