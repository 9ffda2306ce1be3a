package dto

import "time"

// SubmitTicketRequest is the payload for filing a fault report.
type SubmitTicketRequest struct {
	TypeID      string `json:"type_id"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	MediaID     string `json:"media_id"`
}

// DealTicketRequest carries the staff resolution summary.
type DealTicketRequest struct {
	Summary string `json:"summary"`
}

// CheckTicketRequest carries the reporter's verdict.
type CheckTicketRequest struct {
	Accepted   *bool  `json:"accepted"`
	Evaluation string `json:"evaluation"`
	Level      int    `json:"level"`
}

// RedirectTicketRequest names the new type and handler.
type RedirectTicketRequest struct {
	TypeID  string `json:"type_id"`
	StaffID string `json:"staff_id"`
}

// TicketSummary is one row in a listing.
type TicketSummary struct {
	ID           string     `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	StatusLabel  string     `json:"status_label"`
	TypeID       string     `json:"type_id"`
	TypeName     string     `json:"type_name"`
	DepartmentID string     `json:"department_id"`
	ReporterName string     `json:"reporter_name"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	DealTime     *time.Time `json:"deal_time,omitempty"`
	CheckTime    *time.Time `json:"check_time,omitempty"`
}

// TicketHistoryEntry is one lifecycle transition on the detail timeline.
type TicketHistoryEntry struct {
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// TicketDetailResponse is the full ticket plus caller affordances.
type TicketDetailResponse struct {
	TicketSummary
	StaffID         string               `json:"staff_id"`
	Summary         string               `json:"summary,omitempty"`
	Evaluation      string               `json:"evaluation,omitempty"`
	EvaluationLevel int                  `json:"evaluation_level,omitempty"`
	HasImage        bool                 `json:"has_image"`
	CanAccept       bool                 `json:"can_accept"`
	CanDeal         bool                 `json:"can_deal"`
	CanRemind       bool                 `json:"can_remind"`
	CanRedirect     bool                 `json:"can_redirect"`
	CanCheck        bool                 `json:"can_check"`
	CanCancel       bool                 `json:"can_cancel"`
	CanShowSummary  bool                 `json:"can_show_summary"`
	CanPostMessage  bool                 `json:"can_post_message"`
	ShowEvaluation  bool                 `json:"show_evaluation"`
	History         []TicketHistoryEntry `json:"history"`
}

// PostMessageRequest appends one conversation entry.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// ChatMessageResponse is one conversation entry.
type ChatMessageResponse struct {
	ID         string    `json:"id"`
	SenderRole string    `json:"sender_role"`
	SenderName string    `json:"sender_name"`
	SentAt     time.Time `json:"sent_at"`
	Body       string    `json:"body"`
}
