package domain

import "time"

// ReminderRecord tracks one remind action; used only for rate limiting.
type ReminderRecord struct {
	ID        string
	TicketID  string
	CreatedAt time.Time
}
