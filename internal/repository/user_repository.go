package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// UserRepository handles persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, card_number, name, password_hash, phone, address, is_admin)
        VALUES ($1,NULLIF($2,''),$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.CardNumber,
		user.Name,
		user.PasswordHash,
		user.Phone,
		user.Address,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users
        SET card_number=NULLIF($1,''), name=$2, password_hash=$3, phone=$4, address=$5, is_admin=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		user.CardNumber,
		user.Name,
		user.PasswordHash,
		user.Phone,
		user.Address,
		user.IsAdmin,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = userSelect + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = userSelect + ` WHERE username=$1`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.User, error) {
	const query = userSelect + ` WHERE card_number=$1`
	return r.fetchSingle(ctx, query, cardNumber)
}

const userSelect = `
        SELECT id, username, COALESCE(card_number,''), name, password_hash, phone, address, is_admin, created_at, updated_at
        FROM users`

func (r *userRepository) fetchSingle(ctx context.Context, query, arg string) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.CardNumber,
		&user.Name,
		&user.PasswordHash,
		&user.Phone,
		&user.Address,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
