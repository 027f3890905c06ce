package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
)

// directoryRepository reads the portal's zone/mehfil/karkun reference
// data. Id lookups are cached: assignment writes resolve the same few
// directory rows over and over.
type directoryRepository struct {
	BaseRepository
	cache *cache.Cache
}

func NewDirectoryRepository(base BaseRepository) repository.DirectoryRepository {
	return &directoryRepository{
		BaseRepository: base,
		cache:          cache.New(15*time.Minute, time.Hour),
	}
}

func (r *directoryRepository) GetZone(ctx context.Context, id uuid.UUID) (*model.Zone, error) {
	key := "zone:" + id.String()
	if v, ok := r.cache.Get(key); ok {
		return v.(*model.Zone), nil
	}

	query := `SELECT id, region_id, name FROM zones WHERE id = $1`
	var zone model.Zone
	if err := r.db.GetContext(ctx, &zone, query, id); err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}

	r.cache.Set(key, &zone, cache.DefaultExpiration)
	return &zone, nil
}

func (r *directoryRepository) ListZones(ctx context.Context) ([]*model.Zone, error) {
	query := `SELECT id, region_id, name FROM zones ORDER BY name ASC`
	var zones []*model.Zone
	if err := r.db.SelectContext(ctx, &zones, query); err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return zones, nil
}

func (r *directoryRepository) GetMehfil(ctx context.Context, id uuid.UUID) (*model.MehfilDirectory, error) {
	key := "mehfil:" + id.String()
	if v, ok := r.cache.Get(key); ok {
		return v.(*model.MehfilDirectory), nil
	}

	query := `SELECT id, zone_id, name, address FROM mehfil_directory WHERE id = $1`
	var mehfil model.MehfilDirectory
	if err := r.db.GetContext(ctx, &mehfil, query, id); err != nil {
		return nil, fmt.Errorf("failed to get mehfil: %w", err)
	}

	r.cache.Set(key, &mehfil, cache.DefaultExpiration)
	return &mehfil, nil
}

func (r *directoryRepository) ListMehfils(ctx context.Context, zoneID *uuid.UUID) ([]*model.MehfilDirectory, error) {
	query := `
		SELECT id, zone_id, name, address
		FROM mehfil_directory
		WHERE ($1::uuid IS NULL OR zone_id = $1)
		ORDER BY name ASC
	`
	var mehfils []*model.MehfilDirectory
	if err := r.db.SelectContext(ctx, &mehfils, query, zoneID); err != nil {
		return nil, fmt.Errorf("failed to list mehfils: %w", err)
	}
	return mehfils, nil
}

func (r *directoryRepository) GetKarkun(ctx context.Context, id uuid.UUID) (*model.Karkun, error) {
	key := "karkun:" + id.String()
	if v, ok := r.cache.Get(key); ok {
		return v.(*model.Karkun), nil
	}

	query := `
		SELECT id, name, email, zone_id, mehfil_directory_id,
			is_super_admin, is_region_admin, is_zone_admin, is_mehfil_admin
		FROM karkuns
		WHERE id = $1
	`
	var karkun model.Karkun
	if err := r.db.GetContext(ctx, &karkun, query, id); err != nil {
		return nil, fmt.Errorf("failed to get karkun: %w", err)
	}

	if karkun.IsRegionAdmin {
		regionQuery := `SELECT region_id FROM karkun_regions WHERE karkun_id = $1`
		if err := r.db.SelectContext(ctx, &karkun.RegionIDs, regionQuery, id); err != nil {
			return nil, fmt.Errorf("failed to get karkun regions: %w", err)
		}
	}

	r.cache.Set(key, &karkun, cache.DefaultExpiration)
	return &karkun, nil
}

func (r *directoryRepository) ListKarkuns(ctx context.Context, search string, p model.Pagination) ([]*model.Karkun, int, error) {
	where := `WHERE (COALESCE($1, '') = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM karkuns `+where, search); err != nil {
		return nil, 0, fmt.Errorf("failed to count karkuns: %w", err)
	}

	query := `
		SELECT id, name, email, zone_id, mehfil_directory_id,
			is_super_admin, is_region_admin, is_zone_admin, is_mehfil_admin
		FROM karkuns
	` + where + `
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	var karkuns []*model.Karkun
	if err := r.db.SelectContext(ctx, &karkuns, query, search, p.Size, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list karkuns: %w", err)
	}
	return karkuns, total, nil
}
