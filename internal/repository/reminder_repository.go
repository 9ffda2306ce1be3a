package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// ReminderRepository persists remind actions for rate limiting.
type ReminderRepository interface {
	Create(ctx context.Context, record *domain.ReminderRecord) error
	CountByTicketSince(ctx context.Context, ticketID string, since time.Time) (int, error)
}

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository instantiates the repository.
func NewReminderRepository(pool *pgxpool.Pool) ReminderRepository {
	return &reminderRepository{pool: pool}
}

func (r *reminderRepository) Create(ctx context.Context, record *domain.ReminderRecord) error {
	const query = `INSERT INTO reminder_records (ticket_id) VALUES ($1) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, record.TicketID).Scan(&record.ID, &record.CreatedAt)
}

func (r *reminderRepository) CountByTicketSince(ctx context.Context, ticketID string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM reminder_records WHERE ticket_id=$1 AND created_at > $2`
	var count int
	if err := r.pool.QueryRow(ctx, query, ticketID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
