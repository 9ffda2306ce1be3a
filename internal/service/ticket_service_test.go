package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/events"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

type ticketEnv struct {
	svc       *TicketService
	tickets   *fakeTicketRepo
	types     *fakeTypeRepo
	staff     *fakeStaffRepo
	stats     *fakeStatisticRepo
	reminders *fakeReminderRepo
	users     *fakeUserRepo
	limiter   *fakeLimiter
	mirror    *fakeMirror
	picker    *fakePicker
	published []events.Event
}

func newTicketEnv(t *testing.T) *ticketEnv {
	t.Helper()
	env := &ticketEnv{
		tickets: newFakeTicketRepo(),
		types: newFakeTypeRepo(&domain.TicketType{
			ID:           "type-plumbing",
			DisplayName:  "Plumbing",
			DepartmentID: "dept-1",
			ExternalCode: 901,
		}),
		staff:     &fakeStaffRepo{},
		stats:     &fakeStatisticRepo{},
		reminders: &fakeReminderRepo{},
		users:     newFakeUserRepo(),
		limiter:   &fakeLimiter{},
		mirror:    &fakeMirror{enabled: true, submitID: "ext-100"},
		picker: &fakePicker{binding: &domain.StaffBinding{
			ID:           "binding-1",
			DepartmentID: "dept-1",
			StaffID:      "u-staff",
			StaffName:    "Wang",
		}},
	}

	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range []events.EventType{
		events.EventTicketSubmitted,
		events.EventTicketAccepted,
		events.EventTicketCompleted,
		events.EventTicketConfirmed,
		events.EventTicketReopened,
		events.EventTicketRedirected,
		events.EventTicketReminded,
		events.EventTicketDeleted,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			env.published = append(env.published, event)
			return nil
		})
	}

	env.svc = NewTicketService(TicketDependencies{
		TicketRepo:    env.tickets,
		TypeRepo:      env.types,
		StaffRepo:     env.staff,
		StatisticRepo: env.stats,
		ReminderRepo:  env.reminders,
		UserRepo:      env.users,
		Picker:        env.picker,
		Limiter:       env.limiter,
		Mirror:        env.mirror,
		Media:         &fakeMedia{dataURL: "data:image/jpeg;base64,Zm9v"},
		Dispatcher:    dispatcher,
		Logger:        zap.NewNop(),
	})
	return env
}

func (env *ticketEnv) reporter() *domain.Principal {
	user := &domain.User{ID: "u-reporter", Username: "li", CardNumber: "card-1", Name: "Li", Phone: "555-0101", Address: "Dorm 3"}
	env.users.users[user.ID] = user
	return &domain.Principal{User: user}
}

func (env *ticketEnv) staffPrincipal() *domain.Principal {
	user := &domain.User{ID: "u-staff", Username: "wang", CardNumber: "card-2", Name: "Wang"}
	env.users.users[user.ID] = user
	return &domain.Principal{
		User: user,
		StaffBindings: []domain.StaffBinding{
			{ID: "binding-1", DepartmentID: "dept-1", StaffID: "u-staff", StaffName: "Wang"},
		},
	}
}

func (env *ticketEnv) seedTicket(t *testing.T, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	reporterID := "u-reporter"
	ticket := &domain.Ticket{
		Description:  "leaking tap",
		Status:       status,
		DepartmentID: "dept-1",
		TypeID:       "type-plumbing",
		TypeName:     "Plumbing",
		ReporterID:   &reporterID,
		ReporterName: "Li",
		StaffID:      "u-staff",
		Phone:        "555-0101",
		Address:      "Dorm 3",
		ExternalID:   "ext-100",
	}
	require.NoError(t, env.tickets.Create(context.Background(), ticket))
	return ticket
}

func (env *ticketEnv) eventTypes() []events.EventType {
	var out []events.EventType
	for _, event := range env.published {
		out = append(out, event.Type)
	}
	return out
}

func TestSubmitCreatesWaitingTicket(t *testing.T) {
	env := newTicketEnv(t)
	reporter := env.reporter()

	ticket, err := env.svc.Submit(context.Background(), reporter, SubmitInput{
		TypeID:      "type-plumbing",
		Description: "broken faucet in lab",
		MediaID:     "media-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusWaiting, ticket.Status)
	assert.Equal(t, "u-staff", ticket.StaffID)
	assert.Equal(t, "dept-1", ticket.DepartmentID)
	assert.Equal(t, "Plumbing", ticket.TypeName)
	assert.Equal(t, "555-0101", ticket.Phone)
	assert.Equal(t, "data:image/jpeg;base64,Zm9v", ticket.Image)
	assert.Equal(t, "ext-100", ticket.ExternalID)

	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusWaiting}, env.stats.statuses(ticket.ID))
	assert.Contains(t, env.mirror.calls, "submit")
	assert.Equal(t, []events.EventType{events.EventTicketSubmitted}, env.eventTypes())
}

func TestSubmitRequiresVerifiedIdentity(t *testing.T) {
	env := newTicketEnv(t)
	unbound := &domain.Principal{User: &domain.User{ID: "u-new", Username: "new", Name: "New"}}

	_, err := env.svc.Submit(context.Background(), unbound, SubmitInput{
		TypeID:      "type-plumbing",
		Description: "broken faucet",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindIdentity))
}

func TestSubmitValidation(t *testing.T) {
	env := newTicketEnv(t)
	reporter := env.reporter()

	_, err := env.svc.Submit(context.Background(), reporter, SubmitInput{TypeID: "type-plumbing", Description: "   "})
	assert.True(t, apperrors.IsKind(err, apperrors.KindParams))

	_, err = env.svc.Submit(context.Background(), reporter, SubmitInput{TypeID: "type-missing", Description: "broken faucet"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindParams))
}

func TestSubmitRateLimited(t *testing.T) {
	env := newTicketEnv(t)
	env.limiter.submissionErr = apperrors.NewRateLimited("too many submissions")
	reporter := env.reporter()

	_, err := env.svc.Submit(context.Background(), reporter, SubmitInput{
		TypeID:      "type-plumbing",
		Description: "broken faucet",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimited))
	assert.Empty(t, env.tickets.tickets)
}

func TestSubmitNoStaffAvailable(t *testing.T) {
	env := newTicketEnv(t)
	env.picker.binding = nil
	env.picker.err = apperrors.NewNoStaffAvailable("dept-1")
	reporter := env.reporter()

	_, err := env.svc.Submit(context.Background(), reporter, SubmitInput{
		TypeID:      "type-plumbing",
		Description: "broken faucet",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoStaffAvailable))
	assert.Empty(t, env.tickets.tickets)
}

func TestSubmitSurvivesMirrorFailure(t *testing.T) {
	env := newTicketEnv(t)
	env.mirror.submitErr = assert.AnError
	reporter := env.reporter()

	ticket, err := env.svc.Submit(context.Background(), reporter, SubmitInput{
		TypeID:      "type-plumbing",
		Description: "broken faucet",
	})
	require.NoError(t, err)
	assert.Empty(t, ticket.ExternalID)
	assert.Equal(t, domain.TicketStatusWaiting, ticket.Status)
}

func TestSubmitUpdatesProfileDefaults(t *testing.T) {
	env := newTicketEnv(t)
	reporter := env.reporter()

	_, err := env.svc.Submit(context.Background(), reporter, SubmitInput{
		TypeID:      "type-plumbing",
		Description: "broken faucet",
		Phone:       "555-9999",
		Address:     "Building B",
	})
	require.NoError(t, err)
	assert.Equal(t, "555-9999", reporter.User.Phone)
	assert.Equal(t, "Building B", reporter.User.Address)
}

func TestAcceptMovesTicketToPending(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusWaiting)

	ticket, err := env.svc.Accept(context.Background(), env.staffPrincipal(), seeded.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, "u-staff", ticket.StaffID)
	require.NotNil(t, ticket.DealTime)
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusPending}, env.stats.statuses(ticket.ID))
	assert.Contains(t, env.mirror.calls, "accept")
	assert.Contains(t, env.mirror.calls, "transmit")
}

func TestAcceptGuardsFold(t *testing.T) {
	env := newTicketEnv(t)

	// Wrong state under the right caller.
	pending := env.seedTicket(t, domain.TicketStatusPending)
	_, err := env.svc.Accept(context.Background(), env.staffPrincipal(), pending.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))

	// Right state under the wrong caller.
	waiting := env.seedTicket(t, domain.TicketStatusWaiting)
	_, err = env.svc.Accept(context.Background(), env.reporter(), waiting.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestDealRequiresMeaningfulSummary(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusPending)

	_, err := env.svc.Deal(context.Background(), env.staffPrincipal(), seeded.ID, "ok")
	assert.True(t, apperrors.IsKind(err, apperrors.KindParams))
}

func TestDealCompletesTicket(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusPending)

	ticket, err := env.svc.Deal(context.Background(), env.staffPrincipal(), seeded.ID, "replaced the washer")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusDone, ticket.Status)
	assert.Equal(t, "replaced the washer", ticket.Summary)
	assert.Equal(t, "u-staff", ticket.StaffID)
	require.NotNil(t, ticket.DealTime)
	assert.Contains(t, env.mirror.calls, "accomplish")
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusDone}, env.stats.statuses(ticket.ID))
}

func TestDealStampsActingStaff(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusPending)
	seeded.StaffID = "u-colleague"
	seeded.DealTime = nil
	require.NoError(t, env.tickets.Update(context.Background(), seeded))

	// A colleague from the same department completes the ticket; the
	// ticket and its audit row must carry the caller, not the assignee.
	ticket, err := env.svc.Deal(context.Background(), env.staffPrincipal(), seeded.ID, "replaced the washer")
	require.NoError(t, err)

	assert.Equal(t, "u-staff", ticket.StaffID)
	require.NotNil(t, ticket.DealTime)
}

func TestAcceptRefusedForAdminWithoutStaffBinding(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusWaiting)

	admin := &domain.Principal{
		User: &domain.User{ID: "u-admin", Username: "zhao", CardNumber: "card-9", Name: "Zhao"},
		AdminBindings: []domain.DepartmentAdminBinding{
			{ID: "admin-binding-1", DepartmentID: "dept-1", AdminID: "u-admin"},
		},
	}

	_, err := env.svc.Accept(context.Background(), admin, seeded.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))

	pending := env.seedTicket(t, domain.TicketStatusPending)
	_, err = env.svc.Deal(context.Background(), admin, pending.ID, "replaced the washer")
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestCheckAcceptAppliesDefaults(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusDone)

	ticket, err := env.svc.Check(context.Background(), env.reporter(), seeded.ID, CheckInput{Accepted: true})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusAccept, ticket.Status)
	assert.Equal(t, "No feedback provided", ticket.Evaluation)
	assert.Equal(t, 5, ticket.EvaluationLevel)
	require.NotNil(t, ticket.CheckTime)
	assert.Contains(t, env.mirror.calls, "confirm")
}

func TestCheckRejectReopensUnderSameStaff(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusDone)

	ticket, err := env.svc.Check(context.Background(), env.reporter(), seeded.ID, CheckInput{
		Accepted:   false,
		Evaluation: "still dripping",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, "u-staff", ticket.StaffID)
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusReject}, env.stats.statuses(ticket.ID))
	assert.Contains(t, env.mirror.calls, "reject")
	assert.Equal(t, []events.EventType{events.EventTicketReopened}, env.eventTypes())

	stored, err := env.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, stored.Status)
}

func TestCheckOnlyByReporterOnDone(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusDone)

	_, err := env.svc.Check(context.Background(), env.staffPrincipal(), seeded.ID, CheckInput{Accepted: true})
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestRedirectRejectsUnboundStaff(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusPending)
	env.users.users["u-other"] = &domain.User{ID: "u-other", Username: "zhao", Name: "Zhao"}

	_, err := env.svc.Redirect(context.Background(), env.staffPrincipal(), seeded.ID, RedirectInput{
		TypeID:  "type-plumbing",
		StaffID: "u-other",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindDomainRule))
}

func TestRedirectReassignsTicket(t *testing.T) {
	env := newTicketEnv(t)
	env.types.types["type-electric"] = &domain.TicketType{
		ID:           "type-electric",
		DisplayName:  "Electrical",
		DepartmentID: "dept-2",
		ExternalCode: 902,
	}
	env.users.users["u-other"] = &domain.User{ID: "u-other", Username: "zhao", Name: "Zhao"}
	env.staff.bindings = append(env.staff.bindings, domain.StaffBinding{
		ID: "binding-2", DepartmentID: "dept-2", StaffID: "u-other", StaffName: "Zhao",
	})
	seeded := env.seedTicket(t, domain.TicketStatusPending)

	ticket, err := env.svc.Redirect(context.Background(), env.staffPrincipal(), seeded.ID, RedirectInput{
		TypeID:  "type-electric",
		StaffID: "u-other",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, "u-other", ticket.StaffID)
	assert.Equal(t, "dept-2", ticket.DepartmentID)
	assert.Equal(t, "Electrical", ticket.TypeName)
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusPending}, env.stats.statuses(ticket.ID))
	assert.Contains(t, env.mirror.calls, "transmit")
}

func TestRemindRecordsReminder(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusPending)

	require.NoError(t, env.svc.Remind(context.Background(), env.reporter(), seeded.ID))
	assert.Len(t, env.reminders.records, 1)
	assert.Contains(t, env.mirror.calls, "hasten")
}

func TestRemindRateLimited(t *testing.T) {
	env := newTicketEnv(t)
	env.limiter.reminderErr = apperrors.NewRateLimited("reminders too frequent")
	seeded := env.seedTicket(t, domain.TicketStatusPending)

	err := env.svc.Remind(context.Background(), env.reporter(), seeded.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimited))
	assert.Empty(t, env.reminders.records)
}

func TestRemindRefusedOnClosedTicket(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusAccept)

	err := env.svc.Remind(context.Background(), env.reporter(), seeded.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestDeleteOnlyWhileWaiting(t *testing.T) {
	env := newTicketEnv(t)
	waiting := env.seedTicket(t, domain.TicketStatusWaiting)
	pending := env.seedTicket(t, domain.TicketStatusPending)

	require.NoError(t, env.svc.Delete(context.Background(), env.reporter(), waiting.ID))
	_, err := env.tickets.GetByID(context.Background(), waiting.ID)
	assert.Error(t, err)
	assert.Contains(t, env.mirror.calls, "delete")

	err = env.svc.Delete(context.Background(), env.reporter(), pending.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestListScopesByRole(t *testing.T) {
	env := newTicketEnv(t)
	env.seedTicket(t, domain.TicketStatusWaiting)
	env.seedTicket(t, domain.TicketStatusAccept)

	reporter := env.reporter()
	tickets, err := env.svc.List(context.Background(), reporter, ListQuery{Role: ListRoleUser})
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	// Closed-set filter.
	count, err := env.svc.Count(context.Background(), reporter, ListQuery{Role: ListRoleUser, StatusFilter: "END"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Staff scope without bindings is refused.
	_, err = env.svc.List(context.Background(), reporter, ListQuery{Role: ListRoleStaff})
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))

	// Admin scope requires the system flag.
	_, err = env.svc.List(context.Background(), reporter, ListQuery{Role: ListRoleAdmin})
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))

	sysadmin := &domain.Principal{User: &domain.User{ID: "u-admin", Username: "root", Name: "Admin", IsAdmin: true}}
	tickets, err = env.svc.List(context.Background(), sysadmin, ListQuery{Role: ListRoleAdmin})
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestDetailAffordances(t *testing.T) {
	env := newTicketEnv(t)
	done := env.seedTicket(t, domain.TicketStatusDone)

	detail, err := env.svc.Detail(context.Background(), env.reporter(), done.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanCheck)
	assert.True(t, detail.CanRemind)
	assert.False(t, detail.CanAccept)
	assert.False(t, detail.CanPostMessage)

	waiting := env.seedTicket(t, domain.TicketStatusWaiting)
	detail, err = env.svc.Detail(context.Background(), env.staffPrincipal(), waiting.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanAccept)
	assert.True(t, detail.CanRedirect)
	assert.True(t, detail.CanPostMessage)
	assert.False(t, detail.CanCheck)

	outsider := &domain.Principal{User: &domain.User{ID: "u-outsider", Username: "out", Name: "Out"}}
	_, err = env.svc.Detail(context.Background(), outsider, waiting.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestDetailIncludesAuditTimeline(t *testing.T) {
	env := newTicketEnv(t)
	seeded := env.seedTicket(t, domain.TicketStatusPending)
	env.stats.records = append(env.stats.records,
		domain.StatisticRecord{TicketID: seeded.ID, EnteredStatus: domain.TicketStatusWaiting},
		domain.StatisticRecord{TicketID: seeded.ID, EnteredStatus: domain.TicketStatusPending},
		domain.StatisticRecord{TicketID: "ticket-other", EnteredStatus: domain.TicketStatusWaiting},
	)

	detail, err := env.svc.Detail(context.Background(), env.reporter(), seeded.ID)
	require.NoError(t, err)

	require.Len(t, detail.History, 2)
	assert.Equal(t, domain.TicketStatusWaiting, detail.History[0].EnteredStatus)
	assert.Equal(t, domain.TicketStatusPending, detail.History[1].EnteredStatus)
}
