package domain

import "time"

// SenderRole indicates which side of the conversation authored a message.
type SenderRole string

const (
	SenderRoleUser  SenderRole = "user"
	SenderRoleStaff SenderRole = "staff"
)

// ChatMessage is one entry in a ticket's append-only conversation log.
type ChatMessage struct {
	ID         string
	TicketID   string
	SenderRole SenderRole
	SenderName string
	SentAt     time.Time
	Body       string
}
