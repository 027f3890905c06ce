package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
)

type dutyTypeRepository struct {
	BaseRepository
}

func NewDutyTypeRepository(base BaseRepository) repository.DutyTypeRepository {
	return &dutyTypeRepository{base}
}

func (r *dutyTypeRepository) Create(ctx context.Context, dt *model.DutyType) error {
	query := `
		INSERT INTO duty_types (
			id, zone_id, name, description, is_editable, is_hidden, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	dt.ID = uuid.New()
	dt.CreatedAt = time.Now()
	dt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		dt.ID,
		dt.ZoneID,
		dt.Name,
		dt.Description,
		dt.IsEditable,
		dt.IsHidden,
		dt.CreatedAt,
		dt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create duty type: %w", err)
	}
	return nil
}

func (r *dutyTypeRepository) Get(ctx context.Context, id uuid.UUID) (*model.DutyType, error) {
	query := `
		SELECT id, zone_id, name, description, is_editable, is_hidden, created_at, updated_at
		FROM duty_types
		WHERE id = $1
	`
	var dt model.DutyType
	err := r.db.GetContext(ctx, &dt, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get duty type: %w", err)
	}
	return &dt, nil
}

func (r *dutyTypeRepository) Update(ctx context.Context, dt *model.DutyType) error {
	query := `
		UPDATE duty_types
		SET name = $1, description = $2, is_hidden = $3, updated_at = $4
		WHERE id = $5
	`
	dt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		dt.Name,
		dt.Description,
		dt.IsHidden,
		dt.UpdatedAt,
		dt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update duty type: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("duty type not found: %w", sql.ErrNoRows)
	}

	return nil
}

func (r *dutyTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM duty_types
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete duty type: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("duty type not found: %w", sql.ErrNoRows)
	}

	return nil
}

func (r *dutyTypeRepository) ListActive(ctx context.Context, zoneID *uuid.UUID) ([]*model.DutyType, error) {
	query := `
		SELECT id, zone_id, name, description, is_editable, is_hidden, created_at, updated_at
		FROM duty_types
		WHERE is_hidden = FALSE
		AND ($1::uuid IS NULL OR zone_id = $1)
		ORDER BY name ASC
	`
	var types []*model.DutyType
	err := r.db.SelectContext(ctx, &types, query, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list duty types: %w", err)
	}
	return types, nil
}

// CountReferences scans every day column of both assignment tables so a
// referenced duty type is never deleted out from under a roster.
func (r *dutyTypeRepository) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	conditions := make([]string, 0, len(model.AllWeekdays))
	for _, day := range model.AllWeekdays {
		conditions = append(conditions, day.Column()+" = $1")
	}
	where := strings.Join(conditions, " OR ")

	var total int
	for _, table := range []string{"duty_rosters", "mehfil_coordinators"} {
		var count int
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table, where)
		if err := r.db.GetContext(ctx, &count, query, id); err != nil {
			return 0, fmt.Errorf("failed to count duty type references: %w", err)
		}
		total += count
	}
	return total, nil
}
