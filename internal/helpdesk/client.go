// Package helpdesk mirrors ticket lifecycle events to the external campus
// helpdesk. The local ticket store is the system of record: every call here
// is best-effort from the caller's perspective, and the mirror is expected
// to be reconciled out of band when events are missed.
package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/config"
)

// tokenSafetyMargin is subtracted from the remote expiresIn so a token is
// never presented moments before the remote side invalidates it.
const tokenSafetyMargin = 30 * time.Second

// Client talks to the remote helpdesk API with a cached bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokenURL   string
	apiKey     string
	secret     string
	tokens     TokenStore
	logger     *zap.Logger
}

// NewClient constructs the client.
func NewClient(cfg config.HelpdeskConfig, tokens TokenStore, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		tokenURL:   cfg.TokenURL,
		apiKey:     cfg.APIKey,
		secret:     cfg.Secret,
		tokens:     tokens,
		logger:     logger,
	}
}

// Enabled reports whether a mirror endpoint is configured at all.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type tokenResponse struct {
	APIToken  string `json:"apiToken"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	cached, err := c.tokens.Get(ctx)
	if err != nil {
		c.logger.Warn("helpdesk token cache read failed", zap.Error(err))
	} else if cached != "" {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s?apiKey=%s&secret=%s", c.tokenURL, url.QueryEscape(c.apiKey), url.QueryEscape(c.secret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("helpdesk token endpoint returned %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", err
	}
	if tr.APIToken == "" {
		return "", fmt.Errorf("helpdesk token endpoint returned empty token")
	}

	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenSafetyMargin
	if ttl > 0 {
		if err := c.tokens.Put(ctx, tr.APIToken, ttl); err != nil {
			c.logger.Warn("helpdesk token cache write failed", zap.Error(err))
		}
	}
	return tr.APIToken, nil
}

type actionResponse struct {
	State string          `json:"state"`
	Data  json.RawMessage `json:"data"`
}

func (c *Client) post(ctx context.Context, action string, body any) (*actionResponse, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+action, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("helpdesk %s returned %d", action, resp.StatusCode)
	}

	var ar actionResponse
	if err := json.Unmarshal(raw, &ar); err != nil {
		return nil, err
	}
	if ar.State == "failure" || ar.State == "error" {
		return nil, fmt.Errorf("helpdesk %s rejected: %s", action, ar.State)
	}
	return &ar, nil
}

// SubmitInput carries the fields of a new fault report.
type SubmitInput struct {
	TicketID     string
	TypeName     string
	Description  string
	SortCode     int
	ReporterName string
	ReporterCode string
	ReportTime   time.Time
	ImageURL     string
}

// Submit registers the ticket on the mirror and returns its correlation id.
func (c *Client) Submit(ctx context.Context, input SubmitInput) (string, error) {
	resp, err := c.post(ctx, "submit", map[string]any{
		"id":           input.TicketID,
		"title":        input.TypeName,
		"summary":      input.Description,
		"sortId":       input.SortCode,
		"level":        1,
		"source":       1,
		"reporter":     input.ReporterName,
		"reporterCode": input.ReporterCode,
		"reportTime":   input.ReportTime.Format("2006-01-02 15:04:05"),
		"file":         input.ImageURL,
	})
	if err != nil {
		return "", err
	}
	var externalID string
	if err := json.Unmarshal(resp.Data, &externalID); err != nil {
		return "", fmt.Errorf("helpdesk submit returned malformed id: %w", err)
	}
	return externalID, nil
}

// Accept marks the mirrored ticket accepted.
func (c *Client) Accept(ctx context.Context, externalID string) error {
	_, err := c.post(ctx, "accept", map[string]any{"id": externalID})
	return err
}

// Transmit records a handler change; used for both acceptance and redirects.
func (c *Client) Transmit(ctx context.Context, externalID, staffID, staffName, operatorID, operatorName string) error {
	_, err := c.post(ctx, "transmit", map[string]any{
		"id":           externalID,
		"staffCode":    staffID,
		"staffName":    staffName,
		"operatorCode": operatorID,
		"operatorName": operatorName,
	})
	return err
}

// Accomplish marks the mirrored ticket resolved pending confirmation.
func (c *Client) Accomplish(ctx context.Context, externalID, staffName, staffID, summary string) error {
	_, err := c.post(ctx, "accomplish", map[string]any{
		"id":        externalID,
		"staffName": staffName,
		"staffCode": staffID,
		"summary":   summary,
	})
	return err
}

// Confirm records the reporter's acceptance of the resolution.
func (c *Client) Confirm(ctx context.Context, externalID, userName, userID string, level int, evaluation string) error {
	_, err := c.post(ctx, "confirm", map[string]any{
		"id":         externalID,
		"userName":   userName,
		"userCode":   userID,
		"level":      level,
		"evaluation": evaluation,
	})
	return err
}

// Reject records the reporter's rejection; the mirror treats this as
// terminal even though the local ticket is reopened.
func (c *Client) Reject(ctx context.Context, externalID, userID, userName, reason, staffID string) error {
	_, err := c.post(ctx, "reject", map[string]any{
		"id":        externalID,
		"userCode":  userID,
		"userName":  userName,
		"reason":    reason,
		"staffCode": staffID,
	})
	return err
}

// Hasten nudges the mirrored ticket.
func (c *Client) Hasten(ctx context.Context, externalID string) error {
	_, err := c.post(ctx, "hasten", map[string]any{"id": externalID})
	return err
}

// Delete withdraws the mirrored ticket.
func (c *Client) Delete(ctx context.Context, externalID, userID, userName, description string) error {
	_, err := c.post(ctx, "delete", map[string]any{
		"id":       externalID,
		"userCode": userID,
		"userName": userName,
		"summary":  description,
	})
	return err
}

// Reply mirrors one chat message onto the remote conversation.
func (c *Client) Reply(ctx context.Context, externalID, authorName, authorID, content, messageID string) error {
	_, err := c.post(ctx, "reply", map[string]any{
		"id":         externalID,
		"authorName": authorName,
		"authorCode": authorID,
		"content":    content,
		"messageId":  messageID,
	})
	return err
}
