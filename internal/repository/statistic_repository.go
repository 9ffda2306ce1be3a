package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// StatisticRepository appends immutable transition records. There are no
// update or delete operations: the table is the canonical audit trail.
type StatisticRepository interface {
	Append(ctx context.Context, record *domain.StatisticRecord) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.StatisticRecord, error)
}

type statisticRepository struct {
	pool *pgxpool.Pool
}

// NewStatisticRepository instantiates the repository.
func NewStatisticRepository(pool *pgxpool.Pool) StatisticRepository {
	return &statisticRepository{pool: pool}
}

func (r *statisticRepository) Append(ctx context.Context, record *domain.StatisticRecord) error {
	const query = `
        INSERT INTO statistic_records (entered_status, ticket_id, staff_id, type_id, department_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, recorded_at`
	var staffID *string
	if record.StaffID != "" {
		staffID = &record.StaffID
	}
	return r.pool.QueryRow(ctx, query,
		record.EnteredStatus,
		record.TicketID,
		staffID,
		record.TypeID,
		record.DepartmentID,
	).Scan(&record.ID, &record.RecordedAt)
}

func (r *statisticRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.StatisticRecord, error) {
	const query = `
        SELECT id, recorded_at, entered_status, ticket_id, staff_id, type_id, department_id
        FROM statistic_records WHERE ticket_id=$1 ORDER BY recorded_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatisticRecord
	for rows.Next() {
		var record domain.StatisticRecord
		var staffID *string
		if err := rows.Scan(
			&record.ID,
			&record.RecordedAt,
			&record.EnteredStatus,
			&record.TicketID,
			&staffID,
			&record.TypeID,
			&record.DepartmentID,
		); err != nil {
			return nil, err
		}
		if staffID != nil {
			record.StaffID = *staffID
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
