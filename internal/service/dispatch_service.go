package service

import (
	"context"
	"math/rand"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// DispatchService picks an initial handler for a newly submitted ticket.
// Department admins are excluded from the candidate pool so triage load
// stays on regular staff, but a department run entirely by admins still
// gets its tickets dispatched.
type DispatchService struct {
	staff  repository.StaffBindingRepository
	admins repository.AdminBindingRepository
	pick   func(n int) int
}

// NewDispatchService creates the service.
func NewDispatchService(staff repository.StaffBindingRepository, admins repository.AdminBindingRepository) *DispatchService {
	return &DispatchService{
		staff:  staff,
		admins: admins,
		pick:   rand.Intn,
	}
}

// WithPicker overrides the random index picker; used by tests.
func (s *DispatchService) WithPicker(pick func(n int) int) *DispatchService {
	s.pick = pick
	return s
}

// PickStaff selects one staff member of the department uniformly at random,
// preferring non-admin staff.
func (s *DispatchService) PickStaff(ctx context.Context, departmentID string) (*domain.StaffBinding, error) {
	bindings, err := s.staff.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(bindings) == 0 {
		return nil, apperrors.NewNoStaffAvailable(departmentID)
	}

	adminBindings, err := s.admins.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	adminIDs := make(map[string]struct{}, len(adminBindings))
	for _, binding := range adminBindings {
		adminIDs[binding.AdminID] = struct{}{}
	}

	candidates := make([]domain.StaffBinding, 0, len(bindings))
	for _, binding := range bindings {
		if _, isAdmin := adminIDs[binding.StaffID]; !isAdmin {
			candidates = append(candidates, binding)
		}
	}
	if len(candidates) == 0 {
		candidates = bindings
	}

	selected := candidates[s.pick(len(candidates))]
	return &selected, nil
}
