package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-kit/repair-service/internal/domain"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: map[string]*domain.Department{}}
}

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	dept.ID = fmt.Sprintf("dept-%d", len(r.departments)+1)
	r.departments[dept.ID] = dept
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (r *fakeDepartmentRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, dept := range r.departments {
		if !dept.Deleted {
			out = append(out, *dept)
		}
	}
	return out, nil
}

func (r *fakeDepartmentRepo) CountActiveByName(_ context.Context, name string) (int, error) {
	count := 0
	for _, dept := range r.departments {
		if !dept.Deleted && dept.Name == name {
			count++
		}
	}
	return count, nil
}

func (r *fakeDepartmentRepo) SoftDelete(_ context.Context, id string) error {
	dept, ok := r.departments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	dept.Deleted = true
	return nil
}

type departmentEnv struct {
	svc         *DepartmentService
	departments *fakeDepartmentRepo
	types       *fakeTypeRepo
	staff       *fakeStaffRepo
	admins      *fakeAdminRepo
	users       *fakeUserRepo
}

func newDepartmentEnv() *departmentEnv {
	env := &departmentEnv{
		departments: newFakeDepartmentRepo(),
		types:       newFakeTypeRepo(),
		staff:       &fakeStaffRepo{},
		admins:      &fakeAdminRepo{},
		users:       newFakeUserRepo(),
	}
	env.svc = NewDepartmentService(env.departments, env.types, env.staff, env.admins, env.users)
	return env
}

func sysadmin() *domain.Principal {
	return &domain.Principal{User: &domain.User{ID: "u-root", Username: "root", Name: "Root", IsAdmin: true}}
}

func plainUser() *domain.Principal {
	return &domain.Principal{User: &domain.User{ID: "u-plain", Username: "plain", Name: "Plain"}}
}

func TestCreateDepartmentUniqueName(t *testing.T) {
	env := newDepartmentEnv()

	dept, err := env.svc.CreateDepartment(context.Background(), sysadmin(), "Facilities")
	require.NoError(t, err)
	assert.NotEmpty(t, dept.ID)

	_, err = env.svc.CreateDepartment(context.Background(), sysadmin(), "Facilities")
	assert.True(t, apperrors.IsKind(err, apperrors.KindDomainRule))

	_, err = env.svc.CreateDepartment(context.Background(), plainUser(), "Electrical")
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestDeleteDepartmentCascades(t *testing.T) {
	env := newDepartmentEnv()
	admin := sysadmin()

	dept, err := env.svc.CreateDepartment(context.Background(), admin, "Facilities")
	require.NoError(t, err)

	env.users.users["u-staff"] = &domain.User{ID: "u-staff", Username: "wang", Name: "Wang"}
	env.users.users["u-lead"] = &domain.User{ID: "u-lead", Username: "zhao", Name: "Zhao"}

	_, err = env.svc.BindStaff(context.Background(), admin, dept.ID, "u-staff")
	require.NoError(t, err)
	_, err = env.svc.SetAdmin(context.Background(), admin, dept.ID, "u-lead")
	require.NoError(t, err)
	_, err = env.svc.CreateType(context.Background(), admin, TypeInput{
		DepartmentID: dept.ID,
		DisplayName:  "Plumbing",
		ExternalCode: 901,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteDepartment(context.Background(), admin, dept.ID))

	depts, err := env.svc.ListDepartments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, depts)

	staff, err := env.svc.ListStaff(context.Background(), &dept.ID)
	require.NoError(t, err)
	assert.Empty(t, staff)

	admins, err := env.svc.ListAdmins(context.Background(), dept.ID)
	require.NoError(t, err)
	assert.Empty(t, admins)

	types, err := env.svc.ListTypes(context.Background(), &dept.ID)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestBindStaffDuplicateRefused(t *testing.T) {
	env := newDepartmentEnv()
	admin := sysadmin()
	dept, err := env.svc.CreateDepartment(context.Background(), admin, "Facilities")
	require.NoError(t, err)
	env.users.users["u-staff"] = &domain.User{ID: "u-staff", Username: "wang", Name: "Wang"}

	binding, err := env.svc.BindStaff(context.Background(), admin, dept.ID, "u-staff")
	require.NoError(t, err)
	assert.Equal(t, "Wang", binding.StaffName)

	_, err = env.svc.BindStaff(context.Background(), admin, dept.ID, "u-staff")
	assert.True(t, apperrors.IsKind(err, apperrors.KindDomainRule))

	_, err = env.svc.BindStaff(context.Background(), admin, dept.ID, "u-ghost")
	assert.True(t, apperrors.IsKind(err, apperrors.KindParams))
}

func TestSetAdminDuplicateRefused(t *testing.T) {
	env := newDepartmentEnv()
	admin := sysadmin()
	dept, err := env.svc.CreateDepartment(context.Background(), admin, "Facilities")
	require.NoError(t, err)
	env.users.users["u-lead"] = &domain.User{ID: "u-lead", Username: "zhao", Name: "Zhao"}

	_, err = env.svc.SetAdmin(context.Background(), admin, dept.ID, "u-lead")
	require.NoError(t, err)
	_, err = env.svc.SetAdmin(context.Background(), admin, dept.ID, "u-lead")
	assert.True(t, apperrors.IsKind(err, apperrors.KindDomainRule))
}

func TestListStaffByType(t *testing.T) {
	env := newDepartmentEnv()
	admin := sysadmin()
	dept, err := env.svc.CreateDepartment(context.Background(), admin, "Facilities")
	require.NoError(t, err)
	env.users.users["u-staff"] = &domain.User{ID: "u-staff", Username: "wang", Name: "Wang"}
	_, err = env.svc.BindStaff(context.Background(), admin, dept.ID, "u-staff")
	require.NoError(t, err)

	ticketType, err := env.svc.CreateType(context.Background(), admin, TypeInput{
		DepartmentID: dept.ID,
		DisplayName:  "Plumbing",
		ExternalCode: 901,
	})
	require.NoError(t, err)

	bindings, err := env.svc.ListStaffByType(context.Background(), ticketType.ID)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.Equal(t, "u-staff", bindings[0].StaffID)

	_, err = env.svc.ListStaffByType(context.Background(), "type-ghost")
	assert.True(t, apperrors.IsKind(err, apperrors.KindParams))
}

func TestDeleteTypeRetiresIt(t *testing.T) {
	env := newDepartmentEnv()
	admin := sysadmin()
	dept, err := env.svc.CreateDepartment(context.Background(), admin, "Facilities")
	require.NoError(t, err)

	ticketType, err := env.svc.CreateType(context.Background(), admin, TypeInput{
		DepartmentID: dept.ID,
		DisplayName:  "Plumbing",
		ExternalCode: 901,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteType(context.Background(), admin, ticketType.ID))
	types, err := env.svc.ListTypes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, types)

	err = env.svc.DeleteType(context.Background(), admin, "type-ghost")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
