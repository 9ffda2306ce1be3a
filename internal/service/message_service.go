package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/authz"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/events"
	"github.com/campus-kit/repair-service/internal/observability"
	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// MessageService handles the per-ticket conversation between the reporter
// and the handling department.
type MessageService struct {
	tickets    repository.TicketRepository
	messages   repository.ChatMessageRepository
	mirror     HelpdeskMirror
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewMessageService constructs the service.
func NewMessageService(
	tickets repository.TicketRepository,
	messages repository.ChatMessageRepository,
	mirror HelpdeskMirror,
	dispatcher events.Dispatcher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		tickets:    tickets,
		messages:   messages,
		mirror:     mirror,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Post appends one message to a live ticket's conversation. The reporter
// writes as the user side; department staff and admins write as the staff
// side.
func (s *MessageService) Post(ctx context.Context, principal *domain.Principal, ticketID, body string) (*domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewParamsError("message body is required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	roles := authz.Evaluate(principal, ticket)

	var role domain.SenderRole
	switch {
	case roles.Reporter:
		role = domain.SenderRoleUser
	case roles.DepartmentStaff || roles.DepartmentAdmin:
		role = domain.SenderRoleStaff
	default:
		return nil, apperrors.NewPermissionError("conversation is not visible to this caller")
	}
	if !authz.CanPostMessage(ticket.Status) {
		return nil, apperrors.NewDomainRule(2, "conversation is closed for this ticket")
	}

	msg := &domain.ChatMessage{
		TicketID:   ticket.ID,
		SenderRole: role,
		SenderName: principal.Name(),
		Body:       body,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.mirror != nil && s.mirror.Enabled() && ticket.ExternalID != "" {
		if err := s.mirror.Reply(ctx, ticket.ExternalID, principal.Name(), principal.UserID(), body, msg.ID); err != nil {
			if s.metrics != nil {
				s.metrics.RecordSyncFailure("reply")
			}
			s.logger.Warn("helpdesk sync failed",
				zap.String("action", "reply"),
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketMessagePosted,
			TicketID:  ticket.ID,
			Actor:     events.Actor{UserID: principal.UserID(), Name: principal.Name()},
			Timestamp: s.now(),
			Payload: events.TicketMessagePostedPayload{
				Ticket:      snapshot(ticket),
				MessageID:   msg.ID,
				SenderRole:  msg.SenderRole,
				SenderName:  msg.SenderName,
				BodyPreview: stringPreview(body, 120),
			},
		})
	}
	return msg, nil
}

// List returns the conversation in chronological order.
func (s *MessageService) List(ctx context.Context, principal *domain.Principal, ticketID string) ([]domain.ChatMessage, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanView() {
		return nil, apperrors.NewPermissionError("conversation is not visible to this caller")
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

func stringPreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
