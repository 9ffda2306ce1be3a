package domain

// Department is an organizational unit owning fault types and staff.
type Department struct {
	ID      string
	Name    string
	Deleted bool
}

// StaffBinding associates a person to a department as an eligible assignee.
// A staff member may be bound to multiple departments.
type StaffBinding struct {
	ID           string
	DepartmentID string
	StaffID      string
	StaffName    string
}

// DepartmentAdminBinding marks a person as overseeing a department.
// Admins are excluded from routine assignment unless they are the only
// staff in the department.
type DepartmentAdminBinding struct {
	ID           string
	DepartmentID string
	AdminID      string
	AdminName    string
}
