package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/events"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

type fakeChatRepo struct {
	messages []domain.ChatMessage
}

func (r *fakeChatRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	msg.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeChatRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range r.messages {
		if msg.TicketID == ticketID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type messageEnv struct {
	svc       *MessageService
	tickets   *fakeTicketRepo
	chat      *fakeChatRepo
	mirror    *fakeMirror
	published []events.Event
}

func newMessageEnv(t *testing.T) *messageEnv {
	t.Helper()
	env := &messageEnv{
		tickets: newFakeTicketRepo(),
		chat:    &fakeChatRepo{},
		mirror:  &fakeMirror{enabled: true},
	}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventTicketMessagePosted, func(_ context.Context, event events.Event) error {
		env.published = append(env.published, event)
		return nil
	})
	env.svc = NewMessageService(env.tickets, env.chat, env.mirror, dispatcher, nil, zap.NewNop())
	return env
}

func (env *messageEnv) seedTicket(t *testing.T, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	reporterID := "u-reporter"
	ticket := &domain.Ticket{
		Description:  "flickering light",
		Status:       status,
		DepartmentID: "dept-1",
		ReporterID:   &reporterID,
		StaffID:      "u-staff",
		ExternalID:   "ext-100",
	}
	require.NoError(t, env.tickets.Create(context.Background(), ticket))
	return ticket
}

func TestPostMessageAsReporter(t *testing.T) {
	env := newMessageEnv(t)
	ticket := env.seedTicket(t, domain.TicketStatusPending)
	reporter := &domain.Principal{User: &domain.User{ID: "u-reporter", Name: "Li"}}

	msg, err := env.svc.Post(context.Background(), reporter, ticket.ID, "any update on this?")
	require.NoError(t, err)

	assert.Equal(t, domain.SenderRoleUser, msg.SenderRole)
	assert.Equal(t, "Li", msg.SenderName)
	assert.Contains(t, env.mirror.calls, "reply")
	require.Len(t, env.published, 1)
	payload, ok := env.published[0].Payload.(events.TicketMessagePostedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.SenderRoleUser, payload.SenderRole)
}

func TestPostMessageAsStaff(t *testing.T) {
	env := newMessageEnv(t)
	ticket := env.seedTicket(t, domain.TicketStatusWaiting)
	staff := &domain.Principal{
		User:          &domain.User{ID: "u-staff", Name: "Wang"},
		StaffBindings: []domain.StaffBinding{{DepartmentID: "dept-1", StaffID: "u-staff"}},
	}

	msg, err := env.svc.Post(context.Background(), staff, ticket.ID, "on my way")
	require.NoError(t, err)
	assert.Equal(t, domain.SenderRoleStaff, msg.SenderRole)
}

func TestPostMessageClosedConversation(t *testing.T) {
	env := newMessageEnv(t)
	ticket := env.seedTicket(t, domain.TicketStatusDone)
	reporter := &domain.Principal{User: &domain.User{ID: "u-reporter", Name: "Li"}}

	_, err := env.svc.Post(context.Background(), reporter, ticket.ID, "hello?")
	assert.True(t, apperrors.IsKind(err, apperrors.KindDomainRule))
}

func TestPostMessageOutsiderDenied(t *testing.T) {
	env := newMessageEnv(t)
	ticket := env.seedTicket(t, domain.TicketStatusPending)
	outsider := &domain.Principal{User: &domain.User{ID: "u-outsider", Name: "Out"}}

	_, err := env.svc.Post(context.Background(), outsider, ticket.ID, "let me in")
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestPostMessageEmptyBody(t *testing.T) {
	env := newMessageEnv(t)
	ticket := env.seedTicket(t, domain.TicketStatusPending)
	reporter := &domain.Principal{User: &domain.User{ID: "u-reporter", Name: "Li"}}

	_, err := env.svc.Post(context.Background(), reporter, ticket.ID, "   ")
	assert.True(t, apperrors.IsKind(err, apperrors.KindParams))
}

func TestListMessagesRequiresVisibility(t *testing.T) {
	env := newMessageEnv(t)
	ticket := env.seedTicket(t, domain.TicketStatusPending)
	reporter := &domain.Principal{User: &domain.User{ID: "u-reporter", Name: "Li"}}

	_, err := env.svc.Post(context.Background(), reporter, ticket.ID, "first")
	require.NoError(t, err)
	_, err = env.svc.Post(context.Background(), reporter, ticket.ID, "second")
	require.NoError(t, err)

	msgs, err := env.svc.List(context.Background(), reporter, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	outsider := &domain.Principal{User: &domain.User{ID: "u-outsider", Name: "Out"}}
	_, err = env.svc.List(context.Background(), outsider, ticket.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermission))
}

func TestStringPreviewTruncatesRunes(t *testing.T) {
	assert.Equal(t, "short", stringPreview("short", 120))
	long := make([]rune, 0, 130)
	for i := 0; i < 130; i++ {
		long = append(long, '水')
	}
	assert.Equal(t, 120, len([]rune(stringPreview(string(long), 120))))
}
