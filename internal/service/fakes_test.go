package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/helpdesk"
	"github.com/campus-kit/repair-service/internal/repository"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
	now     time.Time
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, now: time.Now()}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = r.now
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) matches(ticket *domain.Ticket, filter repository.TicketFilter) bool {
	if filter.ReporterID != nil && !ticket.ReportedBy(*filter.ReporterID) {
		return false
	}
	if len(filter.DepartmentIDs) > 0 {
		found := false
		for _, id := range filter.DepartmentIDs {
			if ticket.DepartmentID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if ticket.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if r.matches(ticket, filter) {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) CountWithFilter(_ context.Context, filter repository.TicketFilter) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if r.matches(ticket, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountByReporterSince(_ context.Context, reporterID string, since time.Time) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if ticket.ReportedBy(reporterID) && !ticket.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeTypeRepo struct {
	types map[string]*domain.TicketType
}

func newFakeTypeRepo(types ...*domain.TicketType) *fakeTypeRepo {
	repo := &fakeTypeRepo{types: map[string]*domain.TicketType{}}
	for _, t := range types {
		repo.types[t.ID] = t
	}
	return repo
}

func (r *fakeTypeRepo) Create(_ context.Context, t *domain.TicketType) error {
	t.ID = fmt.Sprintf("type-%d", len(r.types)+1)
	r.types[t.ID] = t
	return nil
}

func (r *fakeTypeRepo) GetByID(_ context.Context, id string) (*domain.TicketType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTypeRepo) GetActiveByID(_ context.Context, id string) (*domain.TicketType, error) {
	t, ok := r.types[id]
	if !ok || t.Deleted {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTypeRepo) ListActive(_ context.Context, departmentID *string) ([]domain.TicketType, error) {
	var out []domain.TicketType
	for _, t := range r.types {
		if t.Deleted {
			continue
		}
		if departmentID != nil && t.DepartmentID != *departmentID {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTypeRepo) SoftDelete(_ context.Context, id string) error {
	t, ok := r.types[id]
	if !ok {
		return pgx.ErrNoRows
	}
	t.Deleted = true
	return nil
}

func (r *fakeTypeRepo) SoftDeleteByDepartment(_ context.Context, departmentID string) error {
	for _, t := range r.types {
		if t.DepartmentID == departmentID {
			t.Deleted = true
		}
	}
	return nil
}

type fakeStaffRepo struct {
	bindings []domain.StaffBinding
}

func (r *fakeStaffRepo) Create(_ context.Context, binding *domain.StaffBinding) error {
	binding.ID = fmt.Sprintf("staff-binding-%d", len(r.bindings)+1)
	r.bindings = append(r.bindings, *binding)
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffBinding, error) {
	for _, b := range r.bindings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) ListByDepartment(_ context.Context, departmentID string) ([]domain.StaffBinding, error) {
	var out []domain.StaffBinding
	for _, b := range r.bindings {
		if b.DepartmentID == departmentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) ListByStaff(_ context.Context, staffID string) ([]domain.StaffBinding, error) {
	var out []domain.StaffBinding
	for _, b := range r.bindings {
		if b.StaffID == staffID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) ListAll(_ context.Context) ([]domain.StaffBinding, error) {
	return append([]domain.StaffBinding{}, r.bindings...), nil
}

func (r *fakeStaffRepo) Count(_ context.Context, departmentID, staffID string) (int, error) {
	count := 0
	for _, b := range r.bindings {
		if b.DepartmentID == departmentID && b.StaffID == staffID {
			count++
		}
	}
	return count, nil
}

func (r *fakeStaffRepo) Delete(_ context.Context, departmentID, staffID string) error {
	out := r.bindings[:0]
	for _, b := range r.bindings {
		if !(b.DepartmentID == departmentID && b.StaffID == staffID) {
			out = append(out, b)
		}
	}
	r.bindings = out
	return nil
}

func (r *fakeStaffRepo) DeleteByDepartment(_ context.Context, departmentID string) error {
	out := r.bindings[:0]
	for _, b := range r.bindings {
		if b.DepartmentID != departmentID {
			out = append(out, b)
		}
	}
	r.bindings = out
	return nil
}

type fakeAdminRepo struct {
	bindings []domain.DepartmentAdminBinding
}

func (r *fakeAdminRepo) Create(_ context.Context, binding *domain.DepartmentAdminBinding) error {
	binding.ID = fmt.Sprintf("admin-binding-%d", len(r.bindings)+1)
	r.bindings = append(r.bindings, *binding)
	return nil
}

func (r *fakeAdminRepo) ListByDepartment(_ context.Context, departmentID string) ([]domain.DepartmentAdminBinding, error) {
	var out []domain.DepartmentAdminBinding
	for _, b := range r.bindings {
		if b.DepartmentID == departmentID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) ListByAdmin(_ context.Context, adminID string) ([]domain.DepartmentAdminBinding, error) {
	var out []domain.DepartmentAdminBinding
	for _, b := range r.bindings {
		if b.AdminID == adminID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) Count(_ context.Context, departmentID, adminID string) (int, error) {
	count := 0
	for _, b := range r.bindings {
		if b.DepartmentID == departmentID && b.AdminID == adminID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAdminRepo) Delete(_ context.Context, departmentID, adminID string) error {
	out := r.bindings[:0]
	for _, b := range r.bindings {
		if !(b.DepartmentID == departmentID && b.AdminID == adminID) {
			out = append(out, b)
		}
	}
	r.bindings = out
	return nil
}

type fakeStatisticRepo struct {
	records []domain.StatisticRecord
}

func (r *fakeStatisticRepo) Append(_ context.Context, record *domain.StatisticRecord) error {
	record.ID = fmt.Sprintf("stat-%d", len(r.records)+1)
	record.RecordedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeStatisticRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.StatisticRecord, error) {
	var out []domain.StatisticRecord
	for _, rec := range r.records {
		if rec.TicketID == ticketID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeStatisticRepo) statuses(ticketID string) []domain.TicketStatus {
	var out []domain.TicketStatus
	for _, rec := range r.records {
		if rec.TicketID == ticketID {
			out = append(out, rec.EnteredStatus)
		}
	}
	return out
}

type fakeReminderRepo struct {
	records []domain.ReminderRecord
}

func (r *fakeReminderRepo) Create(_ context.Context, record *domain.ReminderRecord) error {
	record.ID = fmt.Sprintf("reminder-%d", len(r.records)+1)
	record.CreatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeReminderRepo) CountByTicketSince(_ context.Context, ticketID string, since time.Time) (int, error) {
	count := 0
	for _, rec := range r.records {
		if rec.TicketID == ticketID && !rec.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByCardNumber(_ context.Context, cardNumber string) (*domain.User, error) {
	for _, u := range r.users {
		if u.CardNumber == cardNumber {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakePicker struct {
	binding *domain.StaffBinding
	err     error
}

func (p *fakePicker) PickStaff(context.Context, string) (*domain.StaffBinding, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.binding, nil
}

type fakeLimiter struct {
	submissionErr error
	reminderErr   error
}

func (l *fakeLimiter) CheckSubmission(context.Context, string) error { return l.submissionErr }
func (l *fakeLimiter) CheckReminder(context.Context, string) error   { return l.reminderErr }

// fakeMirror records every helpdesk call it receives.
type fakeMirror struct {
	enabled   bool
	submitID  string
	submitErr error
	actionErr error
	calls     []string
}

func (m *fakeMirror) Enabled() bool { return m.enabled }

func (m *fakeMirror) Submit(_ context.Context, _ helpdesk.SubmitInput) (string, error) {
	m.calls = append(m.calls, "submit")
	if m.submitErr != nil {
		return "", m.submitErr
	}
	return m.submitID, nil
}

func (m *fakeMirror) call(name string) error {
	m.calls = append(m.calls, name)
	return m.actionErr
}

func (m *fakeMirror) Accept(context.Context, string) error { return m.call("accept") }
func (m *fakeMirror) Transmit(context.Context, string, string, string, string, string) error {
	return m.call("transmit")
}
func (m *fakeMirror) Accomplish(context.Context, string, string, string, string) error {
	return m.call("accomplish")
}
func (m *fakeMirror) Confirm(context.Context, string, string, string, int, string) error {
	return m.call("confirm")
}
func (m *fakeMirror) Reject(context.Context, string, string, string, string, string) error {
	return m.call("reject")
}
func (m *fakeMirror) Hasten(context.Context, string) error { return m.call("hasten") }
func (m *fakeMirror) Delete(context.Context, string, string, string, string) error {
	return m.call("delete")
}
func (m *fakeMirror) Reply(context.Context, string, string, string, string, string) error {
	return m.call("reply")
}

type fakeMedia struct {
	dataURL string
	err     error
}

func (f *fakeMedia) FetchDataURL(context.Context, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.dataURL, nil
}
