package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// DepartmentService covers the system-admin surface: departments, fault
// types, staff bindings and department admins.
type DepartmentService struct {
	departments repository.DepartmentRepository
	types       repository.TicketTypeRepository
	staff       repository.StaffBindingRepository
	admins      repository.AdminBindingRepository
	users       repository.UserRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(
	departments repository.DepartmentRepository,
	types repository.TicketTypeRepository,
	staff repository.StaffBindingRepository,
	admins repository.AdminBindingRepository,
	users repository.UserRepository,
) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		types:       types,
		staff:       staff,
		admins:      admins,
		users:       users,
	}
}

func requireSystemAdmin(principal *domain.Principal) error {
	if !principal.SystemAdmin() {
		return apperrors.NewPermissionError("administrator access required")
	}
	return nil
}

// CreateDepartment adds a department with a unique active name.
func (s *DepartmentService) CreateDepartment(ctx context.Context, principal *domain.Principal, name string) (*domain.Department, error) {
	if err := requireSystemAdmin(principal); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewParamsError("department name is required")
	}
	count, err := s.departments.CountActiveByName(ctx, name)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count > 0 {
		return nil, apperrors.NewDomainRule(3, "department name already in use")
	}
	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns active departments; open to any caller.
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return depts, nil
}

// GetDepartment resolves one department by id.
func (s *DepartmentService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department")
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// DeleteDepartment soft-deletes a department and cascades: staff and admin
// bindings are removed and its fault types retired. Existing tickets keep
// their department reference.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, principal *domain.Principal, id string) error {
	if err := requireSystemAdmin(principal); err != nil {
		return err
	}
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}
	if err := s.departments.SoftDelete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.staff.DeleteByDepartment(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	admins, err := s.admins.ListByDepartment(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	for _, binding := range admins {
		if err := s.admins.Delete(ctx, id, binding.AdminID); err != nil {
			return apperrors.MapError(err)
		}
	}
	if err := s.types.SoftDeleteByDepartment(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// BindStaff makes a user an eligible assignee for a department.
func (s *DepartmentService) BindStaff(ctx context.Context, principal *domain.Principal, departmentID, staffID string) (*domain.StaffBinding, error) {
	if err := requireSystemAdmin(principal); err != nil {
		return nil, err
	}
	dept, err := s.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if dept.Deleted {
		return nil, apperrors.NewParamsError("department has been removed")
	}
	user, err := s.users.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParamsError("unknown staff member")
		}
		return nil, apperrors.MapError(err)
	}
	count, err := s.staff.Count(ctx, departmentID, staffID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count > 0 {
		return nil, apperrors.NewDomainRule(4, "staff member already bound to department")
	}
	binding := &domain.StaffBinding{
		DepartmentID: departmentID,
		StaffID:      user.ID,
		StaffName:    user.Name,
	}
	if err := s.staff.Create(ctx, binding); err != nil {
		return nil, apperrors.MapError(err)
	}
	return binding, nil
}

// UnbindStaff removes a staff binding.
func (s *DepartmentService) UnbindStaff(ctx context.Context, principal *domain.Principal, departmentID, staffID string) error {
	if err := requireSystemAdmin(principal); err != nil {
		return err
	}
	if err := s.staff.Delete(ctx, departmentID, staffID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListStaff returns staff bindings, optionally scoped to one department.
func (s *DepartmentService) ListStaff(ctx context.Context, departmentID *string) ([]domain.StaffBinding, error) {
	var (
		bindings []domain.StaffBinding
		err      error
	)
	if departmentID != nil {
		bindings, err = s.staff.ListByDepartment(ctx, *departmentID)
	} else {
		bindings, err = s.staff.ListAll(ctx)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return bindings, nil
}

// ListStaffByType returns the staff of the department owning a fault type.
func (s *DepartmentService) ListStaffByType(ctx context.Context, typeID string) ([]domain.StaffBinding, error) {
	ticketType, err := s.types.GetActiveByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParamsError("unknown ticket type")
		}
		return nil, apperrors.MapError(err)
	}
	bindings, err := s.staff.ListByDepartment(ctx, ticketType.DepartmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return bindings, nil
}

// SetAdmin marks a user as overseeing a department.
func (s *DepartmentService) SetAdmin(ctx context.Context, principal *domain.Principal, departmentID, adminID string) (*domain.DepartmentAdminBinding, error) {
	if err := requireSystemAdmin(principal); err != nil {
		return nil, err
	}
	dept, err := s.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if dept.Deleted {
		return nil, apperrors.NewParamsError("department has been removed")
	}
	user, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParamsError("unknown user")
		}
		return nil, apperrors.MapError(err)
	}
	count, err := s.admins.Count(ctx, departmentID, adminID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if count > 0 {
		return nil, apperrors.NewDomainRule(5, "user already administers department")
	}
	binding := &domain.DepartmentAdminBinding{
		DepartmentID: departmentID,
		AdminID:      user.ID,
		AdminName:    user.Name,
	}
	if err := s.admins.Create(ctx, binding); err != nil {
		return nil, apperrors.MapError(err)
	}
	return binding, nil
}

// RemoveAdmin clears a department admin binding.
func (s *DepartmentService) RemoveAdmin(ctx context.Context, principal *domain.Principal, departmentID, adminID string) error {
	if err := requireSystemAdmin(principal); err != nil {
		return err
	}
	if err := s.admins.Delete(ctx, departmentID, adminID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListAdmins returns a department's admin bindings.
func (s *DepartmentService) ListAdmins(ctx context.Context, departmentID string) ([]domain.DepartmentAdminBinding, error) {
	bindings, err := s.admins.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return bindings, nil
}

// TypeInput describes a new fault type.
type TypeInput struct {
	DepartmentID string
	DisplayName  string
	Internal     bool
	ExternalCode int
}

// CreateType adds a fault type under a department.
func (s *DepartmentService) CreateType(ctx context.Context, principal *domain.Principal, input TypeInput) (*domain.TicketType, error) {
	if err := requireSystemAdmin(principal); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, apperrors.NewParamsError("type name is required")
	}
	dept, err := s.GetDepartment(ctx, input.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept.Deleted {
		return nil, apperrors.NewParamsError("department has been removed")
	}
	ticketType := &domain.TicketType{
		DisplayName:  name,
		DepartmentID: dept.ID,
		Internal:     input.Internal,
		ExternalCode: input.ExternalCode,
	}
	if err := s.types.Create(ctx, ticketType); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticketType, nil
}

// ListTypes returns active fault types, optionally scoped to one
// department; open to any caller since submission depends on it.
func (s *DepartmentService) ListTypes(ctx context.Context, departmentID *string) ([]domain.TicketType, error) {
	types, err := s.types.ListActive(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return types, nil
}

// DeleteType retires a fault type.
func (s *DepartmentService) DeleteType(ctx context.Context, principal *domain.Principal, typeID string) error {
	if err := requireSystemAdmin(principal); err != nil {
		return err
	}
	if _, err := s.types.GetByID(ctx, typeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket type")
		}
		return apperrors.MapError(err)
	}
	if err := s.types.SoftDelete(ctx, typeID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
