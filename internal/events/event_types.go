package events

import (
	"time"

	"github.com/campus-kit/repair-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted     EventType = "ticket_submitted"
	EventTicketAccepted      EventType = "ticket_accepted"
	EventTicketCompleted     EventType = "ticket_completed"
	EventTicketConfirmed     EventType = "ticket_confirmed"
	EventTicketReopened      EventType = "ticket_reopened"
	EventTicketRedirected    EventType = "ticket_redirected"
	EventTicketReminded      EventType = "ticket_reminded"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketMessagePosted EventType = "ticket_message_posted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSnapshot carries the display fields every notification needs.
type TicketSnapshot struct {
	TicketID    string              `json:"ticket_id"`
	TypeName    string              `json:"type_name"`
	Description string              `json:"description"`
	Address     string              `json:"address"`
	Phone       string              `json:"phone"`
	Status      domain.TicketStatus `json:"status"`
	ReporterID  string              `json:"reporter_id"`
	StaffID     string              `json:"staff_id"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	Ticket       TicketSnapshot `json:"ticket"`
	DepartmentID string         `json:"department_id"`
}

// TicketAcceptedPayload payload.
type TicketAcceptedPayload struct {
	Ticket    TicketSnapshot `json:"ticket"`
	StaffName string         `json:"staff_name"`
}

// TicketCompletedPayload payload.
type TicketCompletedPayload struct {
	Ticket  TicketSnapshot `json:"ticket"`
	Summary string         `json:"summary"`
}

// TicketConfirmedPayload payload.
type TicketConfirmedPayload struct {
	Ticket          TicketSnapshot `json:"ticket"`
	Evaluation      string         `json:"evaluation"`
	EvaluationLevel int            `json:"evaluation_level"`
}

// TicketReopenedPayload payload.
type TicketReopenedPayload struct {
	Ticket TicketSnapshot `json:"ticket"`
	Reason string         `json:"reason"`
}

// TicketRedirectedPayload payload.
type TicketRedirectedPayload struct {
	Ticket      TicketSnapshot `json:"ticket"`
	FromStaffID string         `json:"from_staff_id"`
	ToStaffID   string         `json:"to_staff_id"`
	ToStaffName string         `json:"to_staff_name"`
}

// TicketRemindedPayload payload.
type TicketRemindedPayload struct {
	Ticket TicketSnapshot `json:"ticket"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Ticket TicketSnapshot `json:"ticket"`
}

// TicketMessagePostedPayload payload.
type TicketMessagePostedPayload struct {
	Ticket      TicketSnapshot    `json:"ticket"`
	MessageID   string            `json:"message_id"`
	SenderRole  domain.SenderRole `json:"sender_role"`
	SenderName  string            `json:"sender_name"`
	BodyPreview string            `json:"body_preview"`
}
