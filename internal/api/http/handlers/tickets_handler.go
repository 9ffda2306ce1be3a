package handlers

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/repair-service/internal/api/dto"
	"github.com/campus-kit/repair-service/internal/auth"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/service"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Submit POST /tickets.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	ticket, err := h.service.Submit(c.UserContext(), principal, service.SubmitInput{
		TypeID:      req.TypeID,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		MediaID:     req.MediaID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	query := parseListQuery(c)
	tickets, err := h.service.List(c.UserContext(), principal, query)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Count GET /tickets/count.
func (h *TicketsHandler) Count(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	query := parseListQuery(c)
	count, err := h.service.Count(c.UserContext(), principal, query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// Detail GET /tickets/:id.
func (h *TicketsHandler) Detail(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	detail, err := h.service.Detail(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// Accept POST /tickets/:id/accept.
func (h *TicketsHandler) Accept(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	ticket, err := h.service.Accept(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Deal POST /tickets/:id/deal.
func (h *TicketsHandler) Deal(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.DealTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	ticket, err := h.service.Deal(c.UserContext(), principal, c.Params("id"), req.Summary)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Check POST /tickets/:id/check.
func (h *TicketsHandler) Check(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.CheckTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	if req.Accepted == nil {
		return apperrors.NewParamsError("accepted is required")
	}
	ticket, err := h.service.Check(c.UserContext(), principal, c.Params("id"), service.CheckInput{
		Accepted:   *req.Accepted,
		Evaluation: req.Evaluation,
		Level:      req.Level,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Redirect POST /tickets/:id/redirect.
func (h *TicketsHandler) Redirect(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.RedirectTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	if req.TypeID == "" || req.StaffID == "" {
		return apperrors.NewParamsError("type_id and staff_id are required")
	}
	ticket, err := h.service.Redirect(c.UserContext(), principal, c.Params("id"), service.RedirectInput{
		TypeID:  req.TypeID,
		StaffID: req.StaffID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Remind POST /tickets/:id/remind.
func (h *TicketsHandler) Remind(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	if err := h.service.Remind(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reminded": true}})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	if err := h.service.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Image GET /tickets/:id/image serves the stored report photo as binary.
func (h *TicketsHandler) Image(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	detail, err := h.service.Detail(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	contentType, payload, err := decodeDataURL(detail.Ticket.Image)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(payload)
}

func decodeDataURL(dataURL string) (string, []byte, error) {
	if dataURL == "" {
		return "", nil, apperrors.NewNotFound("image")
	}
	rest, found := strings.CutPrefix(dataURL, "data:")
	if !found {
		return "", nil, apperrors.NewNotFound("image")
	}
	meta, encoded, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, apperrors.NewNotFound("image")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, apperrors.NewNotFound("image")
	}
	return contentType, payload, nil
}

func parseListQuery(c *fiber.Ctx) service.ListQuery {
	return service.ListQuery{
		Role:         service.ListRole(strings.ToUpper(c.Query("role", string(service.ListRoleUser)))),
		StatusFilter: strings.ToUpper(c.Query("status")),
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("page_size", 10),
	}
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		CreatedAt:    ticket.CreatedAt,
		Description:  ticket.Description,
		Status:       string(ticket.Status),
		StatusLabel:  ticket.Status.Label(),
		TypeID:       ticket.TypeID,
		TypeName:     ticket.TypeName,
		DepartmentID: ticket.DepartmentID,
		ReporterName: ticket.ReporterName,
		Address:      ticket.Address,
		Phone:        ticket.Phone,
		DealTime:     ticket.DealTime,
		CheckTime:    ticket.CheckTime,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	resp := dto.TicketDetailResponse{
		TicketSummary:  ticketSummary(ticket),
		StaffID:        ticket.StaffID,
		HasImage:       ticket.Image != "",
		CanAccept:      detail.CanAccept,
		CanDeal:        detail.CanDeal,
		CanRemind:      detail.CanRemind,
		CanRedirect:    detail.CanRedirect,
		CanCheck:       detail.CanCheck,
		CanCancel:      detail.CanCancel,
		CanShowSummary: detail.CanShowSummary,
		CanPostMessage: detail.CanPostMessage,
		ShowEvaluation: detail.ShowEvaluation,
	}
	if detail.CanShowSummary || detail.CanCheck {
		resp.Summary = ticket.Summary
	}
	if detail.ShowEvaluation {
		resp.Evaluation = ticket.Evaluation
		resp.EvaluationLevel = ticket.EvaluationLevel
	}
	resp.History = historyEntries(detail.History)
	return resp
}

func historyEntries(records []domain.StatisticRecord) []dto.TicketHistoryEntry {
	entries := make([]dto.TicketHistoryEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, dto.TicketHistoryEntry{
			Status:      string(rec.EnteredStatus),
			StatusLabel: rec.EnteredStatus.Label(),
			RecordedAt:  rec.RecordedAt,
		})
	}
	return entries
}
