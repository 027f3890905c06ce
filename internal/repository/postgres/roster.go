package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
)

const rosterColumns = `
	id, user_id, zone_id, mehfil_directory_id,
	duty_type_id_monday, duty_type_id_tuesday, duty_type_id_wednesday,
	duty_type_id_thursday, duty_type_id_friday, duty_type_id_saturday,
	duty_type_id_sunday, created_at, updated_at
`

// dutyRosterRow is the scan target; day slots live in flat columns.
type dutyRosterRow struct {
	model.Base
	UserID            uuid.UUID  `db:"user_id"`
	ZoneID            *uuid.UUID `db:"zone_id"`
	MehfilDirectoryID *uuid.UUID `db:"mehfil_directory_id"`
	model.WeekdayColumns
}

func (row *dutyRosterRow) toModel() *model.DutyRoster {
	return &model.DutyRoster{
		Base:              row.Base,
		UserID:            row.UserID,
		ZoneID:            row.ZoneID,
		MehfilDirectoryID: row.MehfilDirectoryID,
		Slots:             row.WeekdayColumns.Slots(),
	}
}

type dutyRosterRepository struct {
	BaseRepository
}

func NewDutyRosterRepository(base BaseRepository) repository.DutyRosterRepository {
	return &dutyRosterRepository{base}
}

func (r *dutyRosterRepository) Create(ctx context.Context, roster *model.DutyRoster) error {
	query := `
		INSERT INTO duty_rosters (
			id, user_id, zone_id, mehfil_directory_id,
			duty_type_id_monday, duty_type_id_tuesday, duty_type_id_wednesday,
			duty_type_id_thursday, duty_type_id_friday, duty_type_id_saturday,
			duty_type_id_sunday, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`
	roster.ID = uuid.New()
	roster.CreatedAt = time.Now()
	roster.UpdatedAt = time.Now()

	cols := model.NewWeekdayColumns(roster.Slots)
	_, err := r.db.ExecContext(ctx, query,
		roster.ID,
		roster.UserID,
		roster.ZoneID,
		roster.MehfilDirectoryID,
		cols.Monday,
		cols.Tuesday,
		cols.Wednesday,
		cols.Thursday,
		cols.Friday,
		cols.Saturday,
		cols.Sunday,
		roster.CreatedAt,
		roster.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create duty roster: %w", err)
	}
	return nil
}

func (r *dutyRosterRepository) Get(ctx context.Context, id uuid.UUID) (*model.DutyRoster, error) {
	query := `SELECT ` + rosterColumns + ` FROM duty_rosters WHERE id = $1`

	var row dutyRosterRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get duty roster: %w", err)
	}
	return row.toModel(), nil
}

func (r *dutyRosterRepository) ExistsForScope(ctx context.Context, userID uuid.UUID, zoneID, mehfilID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM duty_rosters
			WHERE user_id = $1
			AND zone_id IS NOT DISTINCT FROM $2
			AND mehfil_directory_id IS NOT DISTINCT FROM $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, zoneID, mehfilID)
	if err != nil {
		return false, fmt.Errorf("failed to check roster scope: %w", err)
	}
	return exists, nil
}

// SetDaySlot writes a single day column so concurrent edits of sibling
// days never clobber each other.
func (r *dutyRosterRepository) SetDaySlot(ctx context.Context, rosterID uuid.UUID, day model.Weekday, dutyTypeID *uuid.UUID) error {
	query := fmt.Sprintf(
		`UPDATE duty_rosters SET %s = $1, updated_at = $2 WHERE id = $3`,
		day.Column(),
	)
	result, err := r.db.ExecContext(ctx, query, dutyTypeID, time.Now(), rosterID)
	if err != nil {
		return fmt.Errorf("failed to set day slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("duty roster not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *dutyRosterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM duty_rosters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete duty roster: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("duty roster not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *dutyRosterRepository) ListByScope(ctx context.Context, filter repository.RosterFilter) ([]*model.DutyRoster, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR r.zone_id = $1)
		AND ($2::uuid IS NULL OR r.mehfil_directory_id = $2)
		AND (COALESCE($3, '') = '' OR k.name ILIKE '%' || $3 || '%')
	`

	countQuery := `
		SELECT COUNT(*)
		FROM duty_rosters r
		JOIN karkuns k ON k.id = r.user_id
	` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, filter.ZoneID, filter.MehfilDirectoryID, filter.Search); err != nil {
		return nil, 0, fmt.Errorf("failed to count duty rosters: %w", err)
	}

	query := `
		SELECT r.id, r.user_id, r.zone_id, r.mehfil_directory_id,
			r.duty_type_id_monday, r.duty_type_id_tuesday, r.duty_type_id_wednesday,
			r.duty_type_id_thursday, r.duty_type_id_friday, r.duty_type_id_saturday,
			r.duty_type_id_sunday, r.created_at, r.updated_at
		FROM duty_rosters r
		JOIN karkuns k ON k.id = r.user_id
	` + where + `
		ORDER BY k.name ASC, r.created_at ASC
		LIMIT $4 OFFSET $5
	`

	var rows []*dutyRosterRow
	err := r.db.SelectContext(ctx, &rows, query,
		filter.ZoneID, filter.MehfilDirectoryID, filter.Search, filter.Size, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list duty rosters: %w", err)
	}

	rosters := make([]*model.DutyRoster, 0, len(rows))
	for _, row := range rows {
		rosters = append(rosters, row.toModel())
	}
	return rosters, total, nil
}

func (r *dutyRosterRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.DutyRoster, error) {
	query := `SELECT ` + rosterColumns + ` FROM duty_rosters WHERE user_id = $1 ORDER BY created_at ASC`

	var rows []*dutyRosterRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list duty rosters for user: %w", err)
	}

	rosters := make([]*model.DutyRoster, 0, len(rows))
	for _, row := range rows {
		rosters = append(rosters, row.toModel())
	}
	return rosters, nil
}
