// Package notify is the outbound push boundary. The engine composes
// display-ready payloads; delivery transport is pluggable behind Notifier
// so deployments without a push channel run with the nop implementation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/config"
)

// UserMessage is a push to the reporter of a ticket.
type UserMessage struct {
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	StatusLabel string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Body        string    `json:"body"`
	DeepLink    string    `json:"deep_link"`
}

// StaffMessage is a push to an assigned staff member.
type StaffMessage struct {
	StaffID     string    `json:"staff_id"`
	Title       string    `json:"title"`
	TicketCode  string    `json:"ticket_code"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Timestamp   time.Time `json:"timestamp"`
	Body        string    `json:"body"`
	DeepLink    string    `json:"deep_link"`
}

// Notifier delivers lifecycle pushes. Implementations must be safe for
// concurrent use; failures are delivery-channel concerns and never affect
// ticket state.
type Notifier interface {
	NotifyUser(ctx context.Context, msg UserMessage) error
	NotifyStaff(ctx context.Context, msg StaffMessage) error
}

type webhookNotifier struct {
	httpClient      *http.Client
	userWebhookURL  string
	staffWebhookURL string
	logger          *zap.Logger
}

// NewWebhookNotifier posts messages as JSON to configured webhook endpoints.
func NewWebhookNotifier(cfg config.PushConfig, logger *zap.Logger) Notifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &webhookNotifier{
		httpClient:      &http.Client{Timeout: timeout},
		userWebhookURL:  cfg.UserWebhookURL,
		staffWebhookURL: cfg.StaffWebhookURL,
		logger:          logger,
	}
}

func (n *webhookNotifier) deliver(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("push webhook returned %d", resp.StatusCode)
	}
	return nil
}

func (n *webhookNotifier) NotifyUser(ctx context.Context, msg UserMessage) error {
	if n.userWebhookURL == "" {
		return nil
	}
	return n.deliver(ctx, n.userWebhookURL, msg)
}

func (n *webhookNotifier) NotifyStaff(ctx context.Context, msg StaffMessage) error {
	if n.staffWebhookURL == "" {
		return nil
	}
	return n.deliver(ctx, n.staffWebhookURL, msg)
}

type nopNotifier struct{}

// NewNopNotifier discards all pushes.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) NotifyUser(ctx context.Context, msg UserMessage) error   { return nil }
func (nopNotifier) NotifyStaff(ctx context.Context, msg StaffMessage) error { return nil }
