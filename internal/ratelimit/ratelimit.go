// Package ratelimit enforces sliding-window limits by counting persisted
// events. No in-memory buckets are kept: counts survive process restarts at
// the cost of re-reading the event history on every check.
package ratelimit

import (
	"context"
	"time"

	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

const (
	SubmissionWindow = 24 * time.Hour
	SubmissionLimit  = 30

	ReminderWindow = time.Hour
	ReminderLimit  = 3
)

// Limiter checks submission and reminder windows.
type Limiter struct {
	tickets   repository.TicketRepository
	reminders repository.ReminderRepository
	now       func() time.Time
}

// NewLimiter constructs a limiter over the persisted event stores.
func NewLimiter(tickets repository.TicketRepository, reminders repository.ReminderRepository) *Limiter {
	return &Limiter{tickets: tickets, reminders: reminders, now: time.Now}
}

// WithClock overrides the time source; used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// CheckSubmission refuses a submit once the reporter's trailing-24h ticket
// count exceeds the limit.
func (l *Limiter) CheckSubmission(ctx context.Context, reporterID string) error {
	since := l.now().Add(-SubmissionWindow)
	count, err := l.tickets.CountByReporterSince(ctx, reporterID, since)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > SubmissionLimit {
		return apperrors.NewRateLimited("too many submissions, please retry later")
	}
	return nil
}

// CheckReminder refuses a remind once the ticket already has the limit of
// reminders inside the trailing hour.
func (l *Limiter) CheckReminder(ctx context.Context, ticketID string) error {
	since := l.now().Add(-ReminderWindow)
	count, err := l.reminders.CountByTicketSince(ctx, ticketID, since)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count >= ReminderLimit {
		return apperrors.NewRateLimited("reminders too frequent, please wait")
	}
	return nil
}
