package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// TicketTypeRepository manages fault type persistence.
type TicketTypeRepository interface {
	Create(ctx context.Context, t *domain.TicketType) error
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	GetActiveByID(ctx context.Context, id string) (*domain.TicketType, error)
	ListActive(ctx context.Context, departmentID *string) ([]domain.TicketType, error)
	SoftDelete(ctx context.Context, id string) error
	SoftDeleteByDepartment(ctx context.Context, departmentID string) error
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository instantiates the repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) Create(ctx context.Context, t *domain.TicketType) error {
	const query = `
        INSERT INTO ticket_types (display_name, department_id, internal, external_code)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		t.DisplayName,
		t.DepartmentID,
		t.Internal,
		t.ExternalCode,
	).Scan(&t.ID)
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, display_name, department_id, deleted, internal, external_code
        FROM ticket_types WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketTypeRepository) GetActiveByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `
        SELECT id, display_name, department_id, deleted, internal, external_code
        FROM ticket_types WHERE id=$1 AND deleted=FALSE`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketTypeRepository) fetchSingle(ctx context.Context, query, id string) (*domain.TicketType, error) {
	var t domain.TicketType
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.DisplayName,
		&t.DepartmentID,
		&t.Deleted,
		&t.Internal,
		&t.ExternalCode,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketTypeRepository) ListActive(ctx context.Context, departmentID *string) ([]domain.TicketType, error) {
	query := `
        SELECT id, display_name, department_id, deleted, internal, external_code
        FROM ticket_types WHERE deleted=FALSE`
	args := []any{}
	if departmentID != nil {
		args = append(args, *departmentID)
		query += " AND department_id=$1"
	}
	query += " ORDER BY display_name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var t domain.TicketType
		if err := rows.Scan(&t.ID, &t.DisplayName, &t.DepartmentID, &t.Deleted, &t.Internal, &t.ExternalCode); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *ticketTypeRepository) SoftDelete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE ticket_types SET deleted=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketTypeRepository) SoftDeleteByDepartment(ctx context.Context, departmentID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE ticket_types SET deleted=TRUE WHERE department_id=$1`, departmentID)
	return err
}
