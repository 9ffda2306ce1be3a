// Package authz evaluates a caller's roles relative to a ticket or
// department and derives the per-action capabilities. Evaluation is a pure
// function of the Principal and the entity; no role implies another.
package authz

import "github.com/campus-kit/repair-service/internal/domain"

// Roles is the non-exclusive role set of a caller for one ticket.
type Roles struct {
	Reporter        bool
	DepartmentStaff bool
	DepartmentAdmin bool
	SystemAdmin     bool
}

// Evaluate resolves the caller's roles relative to a ticket.
func Evaluate(principal *domain.Principal, ticket *domain.Ticket) Roles {
	return Roles{
		Reporter:        ticket.ReportedBy(principal.UserID()),
		DepartmentStaff: principal.StaffOf(ticket.DepartmentID),
		DepartmentAdmin: principal.AdminOf(ticket.DepartmentID),
		SystemAdmin:     principal.SystemAdmin(),
	}
}

// CanView reports whether the caller may read the ticket detail.
func (r Roles) CanView() bool {
	return r.Reporter || r.DepartmentStaff || r.DepartmentAdmin || r.SystemAdmin
}

// CanAccept reports whether the accept transition is available. Only a
// staff binding qualifies; an admin binding alone does not.
func (r Roles) CanAccept(status domain.TicketStatus) bool {
	return r.DepartmentStaff && status == domain.TicketStatusWaiting
}

// CanDeal reports whether the deal transition is available. Only a staff
// binding qualifies; an admin binding alone does not.
func (r Roles) CanDeal(status domain.TicketStatus) bool {
	return r.DepartmentStaff && status == domain.TicketStatusPending
}

// CanRemind reports whether the reporter may hasten the ticket.
func (r Roles) CanRemind(status domain.TicketStatus) bool {
	return r.Reporter && !status.Terminal()
}

// CanRedirect reports whether the caller may reassign the ticket. The
// currently assigned staff member qualifies alongside admins.
func (r Roles) CanRedirect(status domain.TicketStatus, assignedToCaller bool) bool {
	if status != domain.TicketStatusWaiting && status != domain.TicketStatusPending {
		return false
	}
	return assignedToCaller || r.SystemAdmin || r.DepartmentAdmin
}

// CanCheck reports whether the reporter may confirm or reject resolution.
func (r Roles) CanCheck(status domain.TicketStatus) bool {
	return r.Reporter && status == domain.TicketStatusDone
}

// CanCancel reports whether the reporter may withdraw the ticket.
func (r Roles) CanCancel(status domain.TicketStatus) bool {
	return r.Reporter && status == domain.TicketStatusWaiting
}

// CanShowSummary reports whether the handling summary is visible.
func (r Roles) CanShowSummary(status domain.TicketStatus) bool {
	if !r.DepartmentStaff && !r.DepartmentAdmin && !r.SystemAdmin {
		return false
	}
	switch status {
	case domain.TicketStatusDone, domain.TicketStatusAccept, domain.TicketStatusReject:
		return true
	}
	return false
}

// CanPostMessage reports whether the conversation accepts new entries.
func CanPostMessage(status domain.TicketStatus) bool {
	return status == domain.TicketStatusWaiting || status == domain.TicketStatusPending
}
