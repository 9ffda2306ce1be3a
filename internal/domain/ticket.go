package domain

import "time"

// TicketStatus enumerates lifecycle states for repair tickets.
type TicketStatus string

const (
	TicketStatusWaiting TicketStatus = "WAITING"
	TicketStatusPending TicketStatus = "PENDING"
	TicketStatusDone    TicketStatus = "DONE"
	TicketStatusAccept  TicketStatus = "ACCEPT"
	TicketStatusReject  TicketStatus = "REJECT"
	TicketStatusClosed  TicketStatus = "CLOSED"
	TicketStatusSpam    TicketStatus = "SPAM"
)

var statusLabels = map[TicketStatus]string{
	TicketStatusWaiting: "Waiting for acceptance",
	TicketStatusPending: "In progress",
	TicketStatusDone:    "Resolved, awaiting confirmation",
	TicketStatusAccept:  "Fault resolved",
	TicketStatusReject:  "Fault still unresolved",
	TicketStatusClosed:  "Closed",
	TicketStatusSpam:    "Invalid report",
}

// Label returns the display text for a status.
func (s TicketStatus) Label() string {
	return statusLabels[s]
}

// Valid reports whether the status belongs to the defined set.
func (s TicketStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether no further lifecycle action applies.
func (s TicketStatus) Terminal() bool {
	switch s {
	case TicketStatusAccept, TicketStatusReject, TicketStatusClosed, TicketStatusSpam:
		return true
	}
	return false
}

// Ticket is the aggregate root for a reported facility fault.
type Ticket struct {
	ID           string
	CreatedAt    time.Time
	Description  string
	Status       TicketStatus
	DepartmentID string
	TypeID       string
	TypeName     string
	// ReporterID is nil for tickets that originated from the external
	// helpdesk without a known internal user.
	ReporterID      *string
	ReporterName    string
	StaffID         string
	Phone           string
	Address         string
	Image           string
	Summary         string
	Evaluation      string
	EvaluationLevel int
	DealTime        *time.Time
	CheckTime       *time.Time
	ClosedTime      *time.Time
	ExternalID      string
}

// ReportedBy reports whether userID is the ticket's reporting user.
func (t *Ticket) ReportedBy(userID string) bool {
	return t.ReporterID != nil && *t.ReporterID == userID
}
