package domain

// Principal is the authenticated caller, passed explicitly into every core
// operation. It carries the identity plus the department bindings needed by
// the authorization evaluator, so no ambient request context is consulted.
type Principal struct {
	User *User
	// StaffBindings are the departments the caller serves as staff.
	StaffBindings []StaffBinding
	// AdminBindings are the departments the caller administers.
	AdminBindings []DepartmentAdminBinding
}

// UserID returns the caller's user id, or "" when unauthenticated.
func (p *Principal) UserID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

// Name returns the caller's display name.
func (p *Principal) Name() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Name
}

// SystemAdmin reports whether the caller carries the global admin flag.
func (p *Principal) SystemAdmin() bool {
	return p != nil && p.User != nil && p.User.IsAdmin
}

// StaffOf reports whether the caller has a staff binding for department.
func (p *Principal) StaffOf(departmentID string) bool {
	if p == nil {
		return false
	}
	for _, b := range p.StaffBindings {
		if b.DepartmentID == departmentID {
			return true
		}
	}
	return false
}

// AdminOf reports whether the caller administers department.
func (p *Principal) AdminOf(departmentID string) bool {
	if p == nil {
		return false
	}
	for _, b := range p.AdminBindings {
		if b.DepartmentID == departmentID {
			return true
		}
	}
	return false
}
