package domain

import "time"

// StatisticRecord is an immutable audit row, one per lifecycle transition.
// Records are only ever appended, never updated or deleted; they are the
// canonical source for downstream reporting.
type StatisticRecord struct {
	ID            string
	RecordedAt    time.Time
	EnteredStatus TicketStatus
	TicketID      string
	StaffID       string
	TypeID        string
	DepartmentID  string
}
