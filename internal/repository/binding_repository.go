package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/repair-service/internal/domain"
)

// StaffBindingRepository manages staff/department associations.
type StaffBindingRepository interface {
	Create(ctx context.Context, binding *domain.StaffBinding) error
	GetByID(ctx context.Context, id string) (*domain.StaffBinding, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.StaffBinding, error)
	ListByStaff(ctx context.Context, staffID string) ([]domain.StaffBinding, error)
	ListAll(ctx context.Context) ([]domain.StaffBinding, error)
	Count(ctx context.Context, departmentID, staffID string) (int, error)
	Delete(ctx context.Context, departmentID, staffID string) error
	DeleteByDepartment(ctx context.Context, departmentID string) error
}

type staffBindingRepository struct {
	pool *pgxpool.Pool
}

// NewStaffBindingRepository instantiates the repository.
func NewStaffBindingRepository(pool *pgxpool.Pool) StaffBindingRepository {
	return &staffBindingRepository{pool: pool}
}

func (r *staffBindingRepository) Create(ctx context.Context, binding *domain.StaffBinding) error {
	const query = `
        INSERT INTO staff_bindings (department_id, staff_id, staff_name)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, binding.DepartmentID, binding.StaffID, binding.StaffName).Scan(&binding.ID)
}

func (r *staffBindingRepository) GetByID(ctx context.Context, id string) (*domain.StaffBinding, error) {
	const query = `SELECT id, department_id, staff_id, staff_name FROM staff_bindings WHERE id=$1`
	var binding domain.StaffBinding
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&binding.ID, &binding.DepartmentID, &binding.StaffID, &binding.StaffName,
	); err != nil {
		return nil, err
	}
	return &binding, nil
}

func (r *staffBindingRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.StaffBinding, error) {
	const query = `SELECT id, department_id, staff_id, staff_name FROM staff_bindings WHERE department_id=$1`
	return r.list(ctx, query, departmentID)
}

func (r *staffBindingRepository) ListByStaff(ctx context.Context, staffID string) ([]domain.StaffBinding, error) {
	const query = `SELECT id, department_id, staff_id, staff_name FROM staff_bindings WHERE staff_id=$1`
	return r.list(ctx, query, staffID)
}

func (r *staffBindingRepository) ListAll(ctx context.Context) ([]domain.StaffBinding, error) {
	const query = `SELECT id, department_id, staff_id, staff_name FROM staff_bindings`
	return r.list(ctx, query)
}

func (r *staffBindingRepository) list(ctx context.Context, query string, args ...any) ([]domain.StaffBinding, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffBinding
	for rows.Next() {
		var binding domain.StaffBinding
		if err := rows.Scan(&binding.ID, &binding.DepartmentID, &binding.StaffID, &binding.StaffName); err != nil {
			return nil, err
		}
		result = append(result, binding)
	}
	return result, rows.Err()
}

func (r *staffBindingRepository) Count(ctx context.Context, departmentID, staffID string) (int, error) {
	const query = `SELECT COUNT(*) FROM staff_bindings WHERE department_id=$1 AND staff_id=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, departmentID, staffID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *staffBindingRepository) Delete(ctx context.Context, departmentID, staffID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_bindings WHERE department_id=$1 AND staff_id=$2`, departmentID, staffID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffBindingRepository) DeleteByDepartment(ctx context.Context, departmentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM staff_bindings WHERE department_id=$1`, departmentID)
	return err
}

// AdminBindingRepository manages department admin associations.
type AdminBindingRepository interface {
	Create(ctx context.Context, binding *domain.DepartmentAdminBinding) error
	ListByDepartment(ctx context.Context, departmentID string) ([]domain.DepartmentAdminBinding, error)
	ListByAdmin(ctx context.Context, adminID string) ([]domain.DepartmentAdminBinding, error)
	Count(ctx context.Context, departmentID, adminID string) (int, error)
	Delete(ctx context.Context, departmentID, adminID string) error
}

type adminBindingRepository struct {
	pool *pgxpool.Pool
}

// NewAdminBindingRepository instantiates the repository.
func NewAdminBindingRepository(pool *pgxpool.Pool) AdminBindingRepository {
	return &adminBindingRepository{pool: pool}
}

func (r *adminBindingRepository) Create(ctx context.Context, binding *domain.DepartmentAdminBinding) error {
	const query = `
        INSERT INTO department_admin_bindings (department_id, admin_id, admin_name)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, binding.DepartmentID, binding.AdminID, binding.AdminName).Scan(&binding.ID)
}

func (r *adminBindingRepository) ListByDepartment(ctx context.Context, departmentID string) ([]domain.DepartmentAdminBinding, error) {
	const query = `SELECT id, department_id, admin_id, admin_name FROM department_admin_bindings WHERE department_id=$1`
	return r.list(ctx, query, departmentID)
}

func (r *adminBindingRepository) ListByAdmin(ctx context.Context, adminID string) ([]domain.DepartmentAdminBinding, error) {
	const query = `SELECT id, department_id, admin_id, admin_name FROM department_admin_bindings WHERE admin_id=$1`
	return r.list(ctx, query, adminID)
}

func (r *adminBindingRepository) list(ctx context.Context, query string, args ...any) ([]domain.DepartmentAdminBinding, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DepartmentAdminBinding
	for rows.Next() {
		var binding domain.DepartmentAdminBinding
		if err := rows.Scan(&binding.ID, &binding.DepartmentID, &binding.AdminID, &binding.AdminName); err != nil {
			return nil, err
		}
		result = append(result, binding)
	}
	return result, rows.Err()
}

func (r *adminBindingRepository) Count(ctx context.Context, departmentID, adminID string) (int, error) {
	const query = `SELECT COUNT(*) FROM department_admin_bindings WHERE department_id=$1 AND admin_id=$2`
	var count int
	if err := r.pool.QueryRow(ctx, query, departmentID, adminID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *adminBindingRepository) Delete(ctx context.Context, departmentID, adminID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM department_admin_bindings WHERE department_id=$1 AND admin_id=$2`, departmentID, adminID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
