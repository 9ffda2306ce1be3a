package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// ChatMessageRepository persists the append-only conversation log.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ChatMessage, error)
}

type chatMessageRepository struct {
	pool *pgxpool.Pool
}

// NewChatMessageRepository instantiates the repository.
func NewChatMessageRepository(pool *pgxpool.Pool) ChatMessageRepository {
	return &chatMessageRepository{pool: pool}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO chat_messages (ticket_id, sender_role, sender_name, body)
        VALUES ($1,$2,$3,$4)
        RETURNING id, sent_at`
	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.SenderRole,
		msg.SenderName,
		msg.Body,
	).Scan(&msg.ID, &msg.SentAt)
}

func (r *chatMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, ticket_id, sender_role, sender_name, sent_at, body
        FROM chat_messages WHERE ticket_id=$1 ORDER BY sent_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.TicketID, &msg.SenderRole, &msg.SenderName, &msg.SentAt, &msg.Body); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
