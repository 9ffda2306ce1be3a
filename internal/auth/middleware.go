package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

const principalKey = "auth_principal"

// Middleware validates bearer tokens and resolves the caller into a full
// Principal: user row plus staff and admin department bindings.
type Middleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	staff  repository.StaffBindingRepository
	admins repository.AdminBindingRepository
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, staff repository.StaffBindingRepository, admins repository.AdminBindingRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users, staff: staff, admins: admins}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewIdentityError("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewIdentityError("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewIdentityError("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewIdentityError("user not found")
		}
		return apperrors.MapError(err)
	}

	staffBindings, err := m.staff.ListByStaff(c.Context(), user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	adminBindings, err := m.admins.ListByAdmin(c.Context(), user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &domain.Principal{
		User:          user,
		StaffBindings: staffBindings,
		AdminBindings: adminBindings,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
