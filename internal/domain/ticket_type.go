package domain

// TicketType categorizes faults and maps them to an owning department.
type TicketType struct {
	ID           string
	DisplayName  string
	DepartmentID string
	Deleted      bool
	Internal     bool
	// ExternalCode is the numeric sort code the helpdesk mirror expects.
	ExternalCode int
}
