package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mehfilportal/admin-api/internal/model"
	"github.com/mehfilportal/admin-api/internal/repository"
)

const coordinatorColumns = `
	id, mehfil_directory_id, user_id, coordinator_type,
	duty_type_id_monday, duty_type_id_tuesday, duty_type_id_wednesday,
	duty_type_id_thursday, duty_type_id_friday, duty_type_id_saturday,
	duty_type_id_sunday, created_at, updated_at
`

type coordinatorRow struct {
	model.Base
	MehfilDirectoryID uuid.UUID             `db:"mehfil_directory_id"`
	UserID            uuid.UUID             `db:"user_id"`
	CoordinatorType   model.CoordinatorType `db:"coordinator_type"`
	model.WeekdayColumns
}

func (row *coordinatorRow) toModel() *model.MehfilCoordinator {
	return &model.MehfilCoordinator{
		Base:              row.Base,
		MehfilDirectoryID: row.MehfilDirectoryID,
		UserID:            row.UserID,
		CoordinatorType:   row.CoordinatorType,
		Slots:             row.WeekdayColumns.Slots(),
	}
}

type coordinatorRepository struct {
	BaseRepository
	outbox repository.OutboxRepository
}

func NewCoordinatorRepository(base BaseRepository, outbox repository.OutboxRepository) repository.CoordinatorRepository {
	return &coordinatorRepository{BaseRepository: base, outbox: outbox}
}

// Replace swaps the holder of a (mehfil, coordinator_type) slot in one
// transaction. The unique index on the pair backstops concurrent
// replaces: the loser of the race fails its insert and rolls back,
// never leaving two active rows.
func (r *coordinatorRepository) Replace(ctx context.Context, coord *model.MehfilCoordinator, event *model.OutboxEvent) error {
	coord.ID = uuid.New()
	coord.CreatedAt = time.Now()
	coord.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		deleteQuery := `
			DELETE FROM mehfil_coordinators
			WHERE mehfil_directory_id = $1 AND coordinator_type = $2
		`
		if _, err := tx.ExecContext(ctx, deleteQuery, coord.MehfilDirectoryID, coord.CoordinatorType); err != nil {
			return fmt.Errorf("failed to remove prior coordinator: %w", err)
		}

		insertQuery := `
			INSERT INTO mehfil_coordinators (
				id, mehfil_directory_id, user_id, coordinator_type,
				duty_type_id_monday, duty_type_id_tuesday, duty_type_id_wednesday,
				duty_type_id_thursday, duty_type_id_friday, duty_type_id_saturday,
				duty_type_id_sunday, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
			)
		`
		cols := model.NewWeekdayColumns(coord.Slots)
		if _, err := tx.ExecContext(ctx, insertQuery,
			coord.ID,
			coord.MehfilDirectoryID,
			coord.UserID,
			coord.CoordinatorType,
			cols.Monday,
			cols.Tuesday,
			cols.Wednesday,
			cols.Thursday,
			cols.Friday,
			cols.Saturday,
			cols.Sunday,
			coord.CreatedAt,
			coord.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert coordinator: %w", err)
		}

		if event != nil {
			if err := r.outbox.CreateTx(ctx, tx, event); err != nil {
				return fmt.Errorf("failed to record coordinator event: %w", err)
			}
		}
		return nil
	})
}

func (r *coordinatorRepository) DeleteSlot(ctx context.Context, mehfilID uuid.UUID, coordinatorType model.CoordinatorType) error {
	query := `
		DELETE FROM mehfil_coordinators
		WHERE mehfil_directory_id = $1 AND coordinator_type = $2
	`
	if _, err := r.db.ExecContext(ctx, query, mehfilID, coordinatorType); err != nil {
		return fmt.Errorf("failed to unassign coordinator: %w", err)
	}
	return nil
}

func (r *coordinatorRepository) Get(ctx context.Context, id uuid.UUID) (*model.MehfilCoordinator, error) {
	query := `SELECT ` + coordinatorColumns + ` FROM mehfil_coordinators WHERE id = $1`

	var row coordinatorRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get coordinator: %w", err)
	}
	return row.toModel(), nil
}

func (r *coordinatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM mehfil_coordinators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coordinator: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("coordinator not found: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *coordinatorRepository) ListActiveByMehfil(ctx context.Context, mehfilID uuid.UUID) ([]*model.MehfilCoordinator, error) {
	query := `
		SELECT ` + coordinatorColumns + `
		FROM mehfil_coordinators
		WHERE mehfil_directory_id = $1
		ORDER BY coordinator_type ASC
	`
	var rows []*coordinatorRow
	if err := r.db.SelectContext(ctx, &rows, query, mehfilID); err != nil {
		return nil, fmt.Errorf("failed to list coordinators: %w", err)
	}

	coords := make([]*model.MehfilCoordinator, 0, len(rows))
	for _, row := range rows {
		coords = append(coords, row.toModel())
	}
	return coords, nil
}

func (r *coordinatorRepository) List(ctx context.Context, filter repository.CoordinatorFilter) ([]*model.MehfilCoordinator, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR c.mehfil_directory_id = $1)
		AND (COALESCE($2, '') = '' OR k.name ILIKE '%' || $2 || '%')
	`

	countQuery := `
		SELECT COUNT(*)
		FROM mehfil_coordinators c
		JOIN karkuns k ON k.id = c.user_id
	` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, filter.MehfilDirectoryID, filter.Search); err != nil {
		return nil, 0, fmt.Errorf("failed to count coordinators: %w", err)
	}

	query := `
		SELECT c.id, c.mehfil_directory_id, c.user_id, c.coordinator_type,
			c.duty_type_id_monday, c.duty_type_id_tuesday, c.duty_type_id_wednesday,
			c.duty_type_id_thursday, c.duty_type_id_friday, c.duty_type_id_saturday,
			c.duty_type_id_sunday, c.created_at, c.updated_at
		FROM mehfil_coordinators c
		JOIN karkuns k ON k.id = c.user_id
	` + where + `
		ORDER BY c.mehfil_directory_id ASC, c.coordinator_type ASC
		LIMIT $3 OFFSET $4
	`

	var rows []*coordinatorRow
	err := r.db.SelectContext(ctx, &rows, query,
		filter.MehfilDirectoryID, filter.Search, filter.Size, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coordinators: %w", err)
	}

	coords := make([]*model.MehfilCoordinator, 0, len(rows))
	for _, row := range rows {
		coords = append(coords, row.toModel())
	}
	return coords, total, nil
}
