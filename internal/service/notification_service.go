package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/events"
	"github.com/campus-kit/repair-service/internal/notify"
)

// NotificationService renders lifecycle events into user and staff pushes.
// Delivery failures are logged and swallowed; notifications never affect
// ticket state.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifier      notify.Notifier
	publicBaseURL string
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier notify.Notifier, publicBaseURL string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher:    dispatcher,
		notifier:      notifier,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketSubmitted, n.handleSubmitted)
	n.dispatcher.Subscribe(events.EventTicketAccepted, n.handleAccepted)
	n.dispatcher.Subscribe(events.EventTicketCompleted, n.handleCompleted)
	n.dispatcher.Subscribe(events.EventTicketReopened, n.handleReopened)
	n.dispatcher.Subscribe(events.EventTicketRedirected, n.handleRedirected)
	n.dispatcher.Subscribe(events.EventTicketReminded, n.handleReminded)
	n.dispatcher.Subscribe(events.EventTicketMessagePosted, n.handleMessagePosted)
}

func (n *NotificationService) deepLink(ticketID string) string {
	return fmt.Sprintf("%s/tickets/%s", n.publicBaseURL, ticketID)
}

func (n *NotificationService) pushUser(ctx context.Context, snap events.TicketSnapshot, title, body string, at time.Time) {
	if snap.ReporterID == "" {
		return
	}
	err := n.notifier.NotifyUser(ctx, notify.UserMessage{
		UserID:      snap.ReporterID,
		Title:       title,
		Location:    snap.Address,
		Category:    snap.TypeName,
		StatusLabel: snap.Status.Label(),
		Timestamp:   at,
		Body:        body,
		DeepLink:    n.deepLink(snap.TicketID),
	})
	if err != nil {
		n.logger.Warn("user push failed", zap.String("ticket_id", snap.TicketID), zap.Error(err))
	}
}

func (n *NotificationService) pushStaff(ctx context.Context, snap events.TicketSnapshot, title, body string, at time.Time) {
	if snap.StaffID == "" {
		return
	}
	err := n.notifier.NotifyStaff(ctx, notify.StaffMessage{
		StaffID:     snap.StaffID,
		Title:       title,
		TicketCode:  snap.TicketID,
		Category:    snap.TypeName,
		Description: snap.Description,
		Phone:       snap.Phone,
		Timestamp:   at,
		Body:        body,
		DeepLink:    n.deepLink(snap.TicketID),
	})
	if err != nil {
		n.logger.Warn("staff push failed", zap.String("ticket_id", snap.TicketID), zap.Error(err))
	}
}

func (n *NotificationService) handleSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketSubmittedPayload)
	if !ok {
		return nil
	}
	n.pushUser(ctx, payload.Ticket, "Repair request received",
		"Your fault report has been filed and assigned to maintenance staff.", event.Timestamp)
	n.pushStaff(ctx, payload.Ticket, "New repair request",
		"A new fault report has been assigned to you.", event.Timestamp)
	return nil
}

func (n *NotificationService) handleAccepted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAcceptedPayload)
	if !ok {
		return nil
	}
	n.pushUser(ctx, payload.Ticket, "Repair request accepted",
		fmt.Sprintf("%s has taken on your fault report.", payload.StaffName), event.Timestamp)
	return nil
}

func (n *NotificationService) handleCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCompletedPayload)
	if !ok {
		return nil
	}
	n.pushUser(ctx, payload.Ticket, "Repair completed",
		fmt.Sprintf("Resolution: %s. Please confirm whether the fault is fixed.", payload.Summary), event.Timestamp)
	return nil
}

func (n *NotificationService) handleReopened(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketReopenedPayload)
	if !ok {
		return nil
	}
	n.pushUser(ctx, payload.Ticket, "Repair reopened",
		"The fault report has been reopened and returned to the handler.", event.Timestamp)
	n.pushStaff(ctx, payload.Ticket, "Resolution rejected",
		fmt.Sprintf("The reporter rejected the resolution: %s", payload.Reason), event.Timestamp)
	return nil
}

func (n *NotificationService) handleRedirected(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketRedirectedPayload)
	if !ok {
		return nil
	}
	n.pushStaff(ctx, payload.Ticket, "Repair request transferred",
		"A fault report has been transferred to you.", event.Timestamp)
	return nil
}

func (n *NotificationService) handleReminded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketRemindedPayload)
	if !ok {
		return nil
	}
	n.pushStaff(ctx, payload.Ticket, "Reporter reminder",
		"The reporter asked for an update on this fault report.", event.Timestamp)
	return nil
}

func (n *NotificationService) handleMessagePosted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessagePostedPayload)
	if !ok {
		return nil
	}
	// Each side's message pushes to the other side only.
	switch payload.SenderRole {
	case domain.SenderRoleUser:
		n.pushStaff(ctx, payload.Ticket, "New message from reporter", payload.BodyPreview, event.Timestamp)
	case domain.SenderRoleStaff:
		n.pushUser(ctx, payload.Ticket, "New message from maintenance", payload.BodyPreview, event.Timestamp)
	}
	return nil
}
