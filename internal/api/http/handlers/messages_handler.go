package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/repair-service/internal/api/dto"
	"github.com/campus-kit/repair-service/internal/auth"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/service"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// MessagesHandler manages the per-ticket conversation endpoints.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// Post POST /tickets/:id/messages.
func (h *MessagesHandler) Post(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	msg, err := h.service.Post(c.UserContext(), principal, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": chatMessage(msg)})
}

// List GET /tickets/:id/messages.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	msgs, err := h.service.List(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ChatMessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, chatMessage(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func chatMessage(msg *domain.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:         msg.ID,
		SenderRole: string(msg.SenderRole),
		SenderName: msg.SenderName,
		SentAt:     msg.SentAt,
		Body:       msg.Body,
	}
}
