package dto

// CreateDepartmentRequest adds a department.
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

// DepartmentResponse is the public view of a department.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BindStaffRequest attaches a staff member to a department.
type BindStaffRequest struct {
	StaffID string `json:"staff_id"`
}

// SetAdminRequest marks a department admin.
type SetAdminRequest struct {
	AdminID string `json:"admin_id"`
}

// StaffBindingResponse is one staff binding.
type StaffBindingResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	StaffID      string `json:"staff_id"`
	StaffName    string `json:"staff_name"`
}

// AdminBindingResponse is one department admin binding.
type AdminBindingResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	AdminID      string `json:"admin_id"`
	AdminName    string `json:"admin_name"`
}

// CreateTypeRequest adds a fault type.
type CreateTypeRequest struct {
	DepartmentID string `json:"department_id"`
	DisplayName  string `json:"display_name"`
	Internal     bool   `json:"internal"`
	ExternalCode int    `json:"external_code"`
}

// TicketTypeResponse is the public view of a fault type.
type TicketTypeResponse struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	DepartmentID string `json:"department_id"`
	Internal     bool   `json:"internal"`
}
