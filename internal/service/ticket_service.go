package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/authz"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/events"
	"github.com/campus-kit/repair-service/internal/helpdesk"
	"github.com/campus-kit/repair-service/internal/observability"
	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

const (
	minSummaryRunes = 6

	defaultEvaluation      = "No feedback provided"
	defaultEvaluationLevel = 5
)

// StaffPicker selects the handler for a newly submitted ticket.
type StaffPicker interface {
	PickStaff(ctx context.Context, departmentID string) (*domain.StaffBinding, error)
}

// WindowLimiter enforces the sliding-window rate limits.
type WindowLimiter interface {
	CheckSubmission(ctx context.Context, reporterID string) error
	CheckReminder(ctx context.Context, ticketID string) error
}

// HelpdeskMirror mirrors lifecycle events onto the external helpdesk.
type HelpdeskMirror interface {
	Enabled() bool
	Submit(ctx context.Context, input helpdesk.SubmitInput) (string, error)
	Accept(ctx context.Context, externalID string) error
	Transmit(ctx context.Context, externalID, staffID, staffName, operatorID, operatorName string) error
	Accomplish(ctx context.Context, externalID, staffName, staffID, summary string) error
	Confirm(ctx context.Context, externalID, userName, userID string, level int, evaluation string) error
	Reject(ctx context.Context, externalID, userID, userName, reason, staffID string) error
	Hasten(ctx context.Context, externalID string) error
	Delete(ctx context.Context, externalID, userID, userName, description string) error
	Reply(ctx context.Context, externalID, authorName, authorID, content, messageID string) error
}

// MediaResolver fetches a report photo into an inline payload.
type MediaResolver interface {
	FetchDataURL(ctx context.Context, mediaID string) (string, error)
}

// TicketService coordinates the repair ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	types      repository.TicketTypeRepository
	staff      repository.StaffBindingRepository
	statistics repository.StatisticRepository
	reminders  repository.ReminderRepository
	users      repository.UserRepository
	picker     StaffPicker
	limiter    WindowLimiter
	mirror     HelpdeskMirror
	media      MediaResolver
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	TypeRepo      repository.TicketTypeRepository
	StaffRepo     repository.StaffBindingRepository
	StatisticRepo repository.StatisticRepository
	ReminderRepo  repository.ReminderRepository
	UserRepo      repository.UserRepository
	Picker        StaffPicker
	Limiter       WindowLimiter
	Mirror        HelpdeskMirror
	Media         MediaResolver
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		types:      deps.TypeRepo,
		staff:      deps.StaffRepo,
		statistics: deps.StatisticRepo,
		reminders:  deps.ReminderRepo,
		users:      deps.UserRepo,
		picker:     deps.Picker,
		limiter:    deps.Limiter,
		mirror:     deps.Mirror,
		media:      deps.Media,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (s *TicketService) WithClock(now func() time.Time) *TicketService {
	s.now = now
	return s
}

// SubmitInput describes a new fault report.
type SubmitInput struct {
	TypeID      string
	Description string
	Phone       string
	Address     string
	MediaID     string
}

// Submit files a new ticket and dispatches it to a staff member.
func (s *TicketService) Submit(ctx context.Context, principal *domain.Principal, input SubmitInput) (*domain.Ticket, error) {
	user := principal.User
	if user == nil || !user.Verified() {
		return nil, apperrors.NewIdentityError("campus card binding required before reporting")
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewParamsError("description is required")
	}

	ticketType, err := s.types.GetActiveByID(ctx, input.TypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParamsError("unknown ticket type")
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.limiter.CheckSubmission(ctx, user.ID); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(input.Phone)
	address := strings.TrimSpace(input.Address)
	if phone == "" {
		phone = user.Phone
	}
	if address == "" {
		address = user.Address
	}
	if phone != user.Phone || address != user.Address {
		user.Phone = phone
		user.Address = address
		if err := s.users.Update(ctx, user); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	image := ""
	if input.MediaID != "" && s.media != nil {
		image, err = s.media.FetchDataURL(ctx, input.MediaID)
		if err != nil {
			s.logger.Warn("report photo fetch failed",
				zap.String("media_id", input.MediaID), zap.Error(err))
			image = ""
		}
	}

	binding, err := s.picker.PickStaff(ctx, ticketType.DepartmentID)
	if err != nil {
		return nil, err
	}

	reporterID := user.ID
	ticket := &domain.Ticket{
		Description:     description,
		Status:          domain.TicketStatusWaiting,
		DepartmentID:    ticketType.DepartmentID,
		TypeID:          ticketType.ID,
		TypeName:        ticketType.DisplayName,
		ReporterID:      &reporterID,
		ReporterName:    user.Name,
		StaffID:         binding.StaffID,
		Phone:           phone,
		Address:         address,
		Image:           image,
		EvaluationLevel: defaultEvaluationLevel,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, ticket, domain.TicketStatusWaiting); err != nil {
		return nil, err
	}

	if s.mirror != nil && s.mirror.Enabled() {
		externalID, err := s.mirror.Submit(ctx, helpdesk.SubmitInput{
			TicketID:     ticket.ID,
			TypeName:     ticket.TypeName,
			Description:  ticket.Description,
			SortCode:     ticketType.ExternalCode,
			ReporterName: user.Name,
			ReporterCode: user.CardNumber,
			ReportTime:   ticket.CreatedAt,
			ImageURL:     ticket.Image,
		})
		if err != nil {
			s.syncFailed("submit", ticket.ID, err)
		} else {
			ticket.ExternalID = externalID
			if err := s.tickets.Update(ctx, ticket); err != nil {
				return nil, apperrors.MapError(err)
			}
		}
	}

	s.publish(ctx, principal, events.EventTicketSubmitted, ticket, events.TicketSubmittedPayload{
		Ticket:       snapshot(ticket),
		DepartmentID: ticket.DepartmentID,
	})
	return ticket, nil
}

// Accept moves a waiting ticket into progress under the calling staff
// member. Wrong state and wrong caller are deliberately indistinguishable.
func (s *TicketService) Accept(ctx context.Context, principal *domain.Principal, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanAccept(ticket.Status) {
		return nil, apperrors.NewPermissionError("ticket cannot be accepted by this caller")
	}

	now := s.now()
	ticket.Status = domain.TicketStatusPending
	ticket.StaffID = principal.UserID()
	ticket.DealTime = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, ticket, domain.TicketStatusPending); err != nil {
		return nil, err
	}

	if s.mirrored(ticket) {
		if err := s.mirror.Accept(ctx, ticket.ExternalID); err != nil {
			s.syncFailed("accept", ticket.ID, err)
		}
		if err := s.mirror.Transmit(ctx, ticket.ExternalID,
			principal.UserID(), principal.Name(), principal.UserID(), principal.Name()); err != nil {
			s.syncFailed("transmit", ticket.ID, err)
		}
	}

	s.publish(ctx, principal, events.EventTicketAccepted, ticket, events.TicketAcceptedPayload{
		Ticket:    snapshot(ticket),
		StaffName: principal.Name(),
	})
	return ticket, nil
}

// Deal marks an in-progress ticket resolved, pending reporter confirmation.
func (s *TicketService) Deal(ctx context.Context, principal *domain.Principal, ticketID, summary string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanDeal(ticket.Status) {
		return nil, apperrors.NewPermissionError("ticket cannot be resolved by this caller")
	}
	summary = strings.TrimSpace(summary)
	if len([]rune(summary)) < minSummaryRunes {
		return nil, apperrors.NewParamsError("summary must describe the fix")
	}

	now := s.now()
	ticket.Status = domain.TicketStatusDone
	ticket.Summary = summary
	ticket.StaffID = principal.UserID()
	ticket.DealTime = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, ticket, domain.TicketStatusDone); err != nil {
		return nil, err
	}

	if s.mirrored(ticket) {
		if err := s.mirror.Accomplish(ctx, ticket.ExternalID, principal.Name(), principal.UserID(), summary); err != nil {
			s.syncFailed("accomplish", ticket.ID, err)
		}
	}

	s.publish(ctx, principal, events.EventTicketCompleted, ticket, events.TicketCompletedPayload{
		Ticket:  snapshot(ticket),
		Summary: summary,
	})
	return ticket, nil
}

// CheckInput carries the reporter's verdict on a resolved ticket.
type CheckInput struct {
	Accepted   bool
	Evaluation string
	Level      int
}

// Check records the reporter's confirmation or rejection of a resolution.
// A rejection is persisted and audited as REJECT, then immediately reopened
// to PENDING under the same staff member.
func (s *TicketService) Check(ctx context.Context, principal *domain.Principal, ticketID string, input CheckInput) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanCheck(ticket.Status) {
		return nil, apperrors.NewPermissionError("ticket cannot be checked by this caller")
	}

	now := s.now()
	evaluation := strings.TrimSpace(input.Evaluation)

	if input.Accepted {
		level := input.Level
		if level == 0 {
			level = defaultEvaluationLevel
		}
		if level < 1 || level > 5 {
			return nil, apperrors.NewParamsError("evaluation level must be between 1 and 5")
		}
		if evaluation == "" {
			evaluation = defaultEvaluation
		}
		ticket.Status = domain.TicketStatusAccept
		ticket.CheckTime = &now
		ticket.Evaluation = evaluation
		ticket.EvaluationLevel = level
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
		if err := s.record(ctx, ticket, domain.TicketStatusAccept); err != nil {
			return nil, err
		}
		if s.mirrored(ticket) {
			if err := s.mirror.Confirm(ctx, ticket.ExternalID, principal.Name(), principal.UserID(), level, evaluation); err != nil {
				s.syncFailed("confirm", ticket.ID, err)
			}
		}
		s.publish(ctx, principal, events.EventTicketConfirmed, ticket, events.TicketConfirmedPayload{
			Ticket:          snapshot(ticket),
			Evaluation:      evaluation,
			EvaluationLevel: level,
		})
		return ticket, nil
	}

	ticket.Status = domain.TicketStatusReject
	ticket.CheckTime = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, ticket, domain.TicketStatusReject); err != nil {
		return nil, err
	}

	// Reopen under the same staff member: the rejection stays on the audit
	// trail while the live ticket goes back into progress.
	ticket.Status = domain.TicketStatusPending
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.mirrored(ticket) {
		if err := s.mirror.Reject(ctx, ticket.ExternalID, principal.UserID(), principal.Name(), evaluation, ticket.StaffID); err != nil {
			s.syncFailed("reject", ticket.ID, err)
		}
	}

	s.publish(ctx, principal, events.EventTicketReopened, ticket, events.TicketReopenedPayload{
		Ticket: snapshot(ticket),
		Reason: evaluation,
	})
	return ticket, nil
}

// RedirectInput names the new type and handler for a ticket.
type RedirectInput struct {
	TypeID  string
	StaffID string
}

// Redirect hands a live ticket to another staff member, possibly moving it
// to the department owning the new type. Status is unchanged.
func (s *TicketService) Redirect(ctx context.Context, principal *domain.Principal, ticketID string, input RedirectInput) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	roles := authz.Evaluate(principal, ticket)
	assignedToCaller := ticket.StaffID == principal.UserID()
	if !roles.CanRedirect(ticket.Status, assignedToCaller) {
		return nil, apperrors.NewPermissionError("ticket cannot be redirected by this caller")
	}

	ticketType, err := s.types.GetActiveByID(ctx, input.TypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParamsError("unknown ticket type")
		}
		return nil, apperrors.MapError(err)
	}

	staff, err := s.users.GetByID(ctx, input.StaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParamsError("unknown staff member")
		}
		return nil, apperrors.MapError(err)
	}

	bound, err := s.staff.Count(ctx, ticketType.DepartmentID, staff.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if bound == 0 {
		return nil, apperrors.NewDomainRule(1, "staff member does not serve the department handling this type")
	}

	fromStaffID := ticket.StaffID
	ticket.StaffID = staff.ID
	ticket.DepartmentID = ticketType.DepartmentID
	ticket.TypeID = ticketType.ID
	ticket.TypeName = ticketType.DisplayName
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.record(ctx, ticket, ticket.Status); err != nil {
		return nil, err
	}

	if s.mirrored(ticket) {
		if err := s.mirror.Transmit(ctx, ticket.ExternalID,
			staff.ID, staff.Name, principal.UserID(), principal.Name()); err != nil {
			s.syncFailed("transmit", ticket.ID, err)
		}
	}

	s.publish(ctx, principal, events.EventTicketRedirected, ticket, events.TicketRedirectedPayload{
		Ticket:      snapshot(ticket),
		FromStaffID: fromStaffID,
		ToStaffID:   staff.ID,
		ToStaffName: staff.Name,
	})
	return ticket, nil
}

// Remind lets the reporter hasten a live ticket, subject to the reminder
// window.
func (s *TicketService) Remind(ctx context.Context, principal *domain.Principal, ticketID string) error {
	if principal.User == nil || !principal.User.Verified() {
		return apperrors.NewIdentityError("campus card binding required")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return err
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanRemind(ticket.Status) {
		return apperrors.NewPermissionError("ticket cannot be reminded by this caller")
	}
	if err := s.limiter.CheckReminder(ctx, ticket.ID); err != nil {
		return err
	}
	if err := s.reminders.Create(ctx, &domain.ReminderRecord{TicketID: ticket.ID}); err != nil {
		return apperrors.MapError(err)
	}

	if s.mirrored(ticket) {
		if err := s.mirror.Hasten(ctx, ticket.ExternalID); err != nil {
			s.syncFailed("hasten", ticket.ID, err)
		}
	}

	s.publish(ctx, principal, events.EventTicketReminded, ticket, events.TicketRemindedPayload{
		Ticket: snapshot(ticket),
	})
	return nil
}

// Delete withdraws an unaccepted ticket.
func (s *TicketService) Delete(ctx context.Context, principal *domain.Principal, ticketID string) error {
	if principal.User == nil || !principal.User.Verified() {
		return apperrors.NewIdentityError("campus card binding required")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return err
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanCancel(ticket.Status) {
		return apperrors.NewPermissionError("ticket cannot be withdrawn by this caller")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}

	if s.mirrored(ticket) {
		if err := s.mirror.Delete(ctx, ticket.ExternalID, principal.UserID(), principal.Name(), ticket.Description); err != nil {
			s.syncFailed("delete", ticket.ID, err)
		}
	}

	s.publish(ctx, principal, events.EventTicketDeleted, ticket, events.TicketDeletedPayload{
		Ticket: snapshot(ticket),
	})
	return nil
}

// ListRole selects which scope a listing runs under.
type ListRole string

const (
	ListRoleUser  ListRole = "USER"
	ListRoleStaff ListRole = "STAFF"
	ListRoleAdmin ListRole = "ADMIN"
)

// statusFilterEnd folds the three closed states into one filter value.
const statusFilterEnd = "END"

// ListQuery describes a ticket listing.
type ListQuery struct {
	Role         ListRole
	StatusFilter string
	Page         int
	PageSize     int
}

func (s *TicketService) scopedFilter(principal *domain.Principal, query ListQuery) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{}

	switch query.Role {
	case ListRoleUser:
		userID := principal.UserID()
		filter.ReporterID = &userID
	case ListRoleStaff:
		seen := map[string]struct{}{}
		for _, b := range principal.StaffBindings {
			seen[b.DepartmentID] = struct{}{}
		}
		for _, b := range principal.AdminBindings {
			seen[b.DepartmentID] = struct{}{}
		}
		if len(seen) == 0 {
			return filter, apperrors.NewPermissionError("no department bindings")
		}
		for id := range seen {
			filter.DepartmentIDs = append(filter.DepartmentIDs, id)
		}
	case ListRoleAdmin:
		if !principal.SystemAdmin() {
			return filter, apperrors.NewPermissionError("administrator access required")
		}
	default:
		return filter, apperrors.NewParamsError("unknown listing role")
	}

	switch query.StatusFilter {
	case "":
	case statusFilterEnd:
		filter.Statuses = []domain.TicketStatus{
			domain.TicketStatusAccept,
			domain.TicketStatusReject,
			domain.TicketStatusClosed,
		}
	default:
		status := domain.TicketStatus(query.StatusFilter)
		if !status.Valid() {
			return filter, apperrors.NewParamsError("unknown status filter")
		}
		filter.Statuses = []domain.TicketStatus{status}
	}

	size := query.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	filter.Limit = size
	filter.Offset = (page - 1) * size
	return filter, nil
}

// List returns the caller's tickets under the requested scope, newest first.
func (s *TicketService) List(ctx context.Context, principal *domain.Principal, query ListQuery) ([]domain.Ticket, error) {
	filter, err := s.scopedFilter(principal, query)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Count returns the ticket count under the same scoping rules as List.
func (s *TicketService) Count(ctx context.Context, principal *domain.Principal, query ListQuery) (int, error) {
	filter, err := s.scopedFilter(principal, query)
	if err != nil {
		return 0, err
	}
	count, err := s.tickets.CountWithFilter(ctx, filter)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// TicketDetail is a ticket plus the actions available to the caller.
// Affordances are derived from the guard predicates, never stored.
type TicketDetail struct {
	Ticket         *domain.Ticket
	CanAccept      bool
	CanDeal        bool
	CanRemind      bool
	CanRedirect    bool
	CanCheck       bool
	CanCancel      bool
	CanShowSummary bool
	CanPostMessage bool
	ShowEvaluation bool
	History        []domain.StatisticRecord
}

// Detail returns one ticket with the caller's affordances.
func (s *TicketService) Detail(ctx context.Context, principal *domain.Principal, ticketID string) (*TicketDetail, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	roles := authz.Evaluate(principal, ticket)
	if !roles.CanView() {
		return nil, apperrors.NewPermissionError("ticket is not visible to this caller")
	}
	history, err := s.statistics.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assignedToCaller := ticket.StaffID == principal.UserID()
	return &TicketDetail{
		Ticket:         ticket,
		CanAccept:      roles.CanAccept(ticket.Status),
		CanDeal:        roles.CanDeal(ticket.Status),
		CanRemind:      roles.CanRemind(ticket.Status),
		CanRedirect:    roles.CanRedirect(ticket.Status, assignedToCaller),
		CanCheck:       roles.CanCheck(ticket.Status),
		CanCancel:      roles.CanCancel(ticket.Status),
		CanShowSummary: roles.CanShowSummary(ticket.Status),
		CanPostMessage: authz.CanPostMessage(ticket.Status),
		ShowEvaluation: ticket.Status == domain.TicketStatusAccept,
		History:        history,
	}, nil
}

func (s *TicketService) load(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// record appends one audit row for the status the ticket just entered.
// Audit failures abort the operation: the trail is part of the transition.
func (s *TicketService) record(ctx context.Context, ticket *domain.Ticket, entered domain.TicketStatus) error {
	err := s.statistics.Append(ctx, &domain.StatisticRecord{
		EnteredStatus: entered,
		TicketID:      ticket.ID,
		StaffID:       ticket.StaffID,
		TypeID:        ticket.TypeID,
		DepartmentID:  ticket.DepartmentID,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) mirrored(ticket *domain.Ticket) bool {
	return s.mirror != nil && s.mirror.Enabled() && ticket.ExternalID != ""
}

func (s *TicketService) syncFailed(action, ticketID string, err error) {
	if s.metrics != nil {
		s.metrics.RecordSyncFailure(action)
	}
	s.logger.Warn("helpdesk sync failed",
		zap.String("action", action),
		zap.String("ticket_id", ticketID),
		zap.Error(err))
}

func (s *TicketService) publish(ctx context.Context, principal *domain.Principal, eventType events.EventType, ticket *domain.Ticket, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.ID,
		Actor:     events.Actor{UserID: principal.UserID(), Name: principal.Name()},
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func snapshot(ticket *domain.Ticket) events.TicketSnapshot {
	reporterID := ""
	if ticket.ReporterID != nil {
		reporterID = *ticket.ReporterID
	}
	return events.TicketSnapshot{
		TicketID:    ticket.ID,
		TypeName:    ticket.TypeName,
		Description: ticket.Description,
		Address:     ticket.Address,
		Phone:       ticket.Phone,
		Status:      ticket.Status,
		ReporterID:  reporterID,
		StaffID:     ticket.StaffID,
	}
}
