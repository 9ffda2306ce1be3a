package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	ReporterID    *string
	DepartmentIDs []string
	Statuses      []domain.TicketStatus
	Limit         int
	Offset        int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountWithFilter(ctx context.Context, filter TicketFilter) (int, error)
	CountByReporterSince(ctx context.Context, reporterID string, since time.Time) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, created_at, description, status, department_id, type_id, type_name,
               reporter_id, reporter_name, staff_id, phone, address, image, summary,
               evaluation, evaluation_level, deal_time, check_time, closed_time, external_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (description, status, department_id, type_id, type_name, reporter_id,
            reporter_name, staff_id, phone, address, image, evaluation_level, external_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at`
	var staffID *string
	if ticket.StaffID != "" {
		staffID = &ticket.StaffID
	}
	return r.pool.QueryRow(ctx, query,
		ticket.Description,
		ticket.Status,
		ticket.DepartmentID,
		ticket.TypeID,
		ticket.TypeName,
		ticket.ReporterID,
		ticket.ReporterName,
		staffID,
		ticket.Phone,
		ticket.Address,
		ticket.Image,
		ticket.EvaluationLevel,
		ticket.ExternalID,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET description=$1, status=$2, department_id=$3, type_id=$4, type_name=$5,
            staff_id=$6, phone=$7, address=$8, image=$9, summary=$10, evaluation=$11,
            evaluation_level=$12, deal_time=$13, check_time=$14, closed_time=$15, external_id=$16
        WHERE id=$17`
	var staffID *string
	if ticket.StaffID != "" {
		staffID = &ticket.StaffID
	}
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Description,
		ticket.Status,
		ticket.DepartmentID,
		ticket.TypeID,
		ticket.TypeName,
		staffID,
		ticket.Phone,
		ticket.Address,
		ticket.Image,
		ticket.Summary,
		ticket.Evaluation,
		ticket.EvaluationLevel,
		ticket.DealTime,
		ticket.CheckTime,
		ticket.ClosedTime,
		ticket.ExternalID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := buildTicketClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountWithFilter(ctx context.Context, filter TicketFilter) (int, error) {
	clauses, args := buildTicketClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, strings.Join(clauses, " AND "))

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) CountByReporterSince(ctx context.Context, reporterID string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE reporter_id=$1 AND created_at > $2`
	var count int
	if err := r.pool.QueryRow(ctx, query, reporterID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildTicketClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		clauses = append(clauses, fmt.Sprintf("reporter_id=$%d", len(args)))
	}
	if len(filter.DepartmentIDs) > 0 {
		placeholders := make([]string, len(filter.DepartmentIDs))
		for i, id := range filter.DepartmentIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("department_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	return clauses, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var staffID *string
	if err := row.Scan(
		&ticket.ID,
		&ticket.CreatedAt,
		&ticket.Description,
		&ticket.Status,
		&ticket.DepartmentID,
		&ticket.TypeID,
		&ticket.TypeName,
		&ticket.ReporterID,
		&ticket.ReporterName,
		&staffID,
		&ticket.Phone,
		&ticket.Address,
		&ticket.Image,
		&ticket.Summary,
		&ticket.Evaluation,
		&ticket.EvaluationLevel,
		&ticket.DealTime,
		&ticket.CheckTime,
		&ticket.ClosedTime,
		&ticket.ExternalID,
	); err != nil {
		return nil, err
	}
	if staffID != nil {
		ticket.StaffID = *staffID
	}
	return &ticket, nil
}
