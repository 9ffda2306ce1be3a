package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/repair-service/internal/api/dto"
	"github.com/campus-kit/repair-service/internal/auth"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/service"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// UsersHandler manages account endpoints.
type UsersHandler struct {
	service *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{service: authService}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	user, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Login POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	result, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      userResponse(result.User),
	}})
}

// Me GET /me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	return c.JSON(fiber.Map{"data": userResponse(principal.User)})
}

// BindCard POST /me/card.
func (h *UsersHandler) BindCard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.BindCardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	user, err := h.service.BindCard(c.UserContext(), principal, req.CardNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateProfile PUT /me/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewIdentityError("")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewParamsError("invalid payload")
	}
	user, err := h.service.UpdateProfile(c.UserContext(), principal, req.Phone, req.Address)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Phone:    user.Phone,
		Address:  user.Address,
		Verified: user.Verified(),
		IsAdmin:  user.IsAdmin,
	}
}
