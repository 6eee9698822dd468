package repository

import (
	"context"
	"fmt"

	"bus-booking/internal/data/entity"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatDefinitionRepository interface {
	FindActiveBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.SeatDefinition, error)
	UpdateActive(ctx context.Context, id uuid.UUID, isActive bool) error
}

type seatDefinitionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatDefinitionRepository(db database.PgxIface, log *zap.Logger) SeatDefinitionRepository {
	return &seatDefinitionRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_definition")),
	}
}

func (r *seatDefinitionRepository) FindActiveBySeatMapID(ctx context.Context, seatMapID uuid.UUID) ([]*entity.SeatDefinition, error) {
	query := `
		SELECT id, seat_map_id, code, seat_row, seat_column, base_price, is_active, created_at, updated_at
		FROM seat_definitions
		WHERE seat_map_id = $1 AND is_active = true
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, seatMapID)
	if err != nil {
		r.log.Error("Failed to find seat definitions",
			zap.Error(err),
			zap.String("seat_map_id", seatMapID.String()),
		)
		return nil, fmt.Errorf("find seat definitions for map %s: %w", seatMapID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.SeatDefinition
	for rows.Next() {
		var seat entity.SeatDefinition
		err := rows.Scan(
			&seat.ID,
			&seat.SeatMapID,
			&seat.Code,
			&seat.SeatRow,
			&seat.SeatColumn,
			&seat.BasePrice,
			&seat.IsActive,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat definition row", zap.Error(err))
			return nil, fmt.Errorf("scan seat definition row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *seatDefinitionRepository) UpdateActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `UPDATE seat_definitions SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, isActive)
	if err != nil {
		r.log.Error("Failed to update seat definition active flag",
			zap.Error(err),
			zap.String("seat_definition_id", id.String()),
			zap.Bool("is_active", isActive),
		)
		return fmt.Errorf("update seat definition %s active flag: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("seat definition %s not found", id.String())
	}

	return nil
}
