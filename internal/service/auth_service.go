package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/repair-service/internal/auth"
	"github.com/campus-kit/repair-service/internal/domain"
	"github.com/campus-kit/repair-service/internal/repository"
	apperrors "github.com/campus-kit/repair-service/pkg/util"
)

// AuthService handles account registration, login and campus card binding.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Username string
	Password string
	Name     string
}

// Register creates an account. The account stays unverified until a campus
// card is bound.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	if username == "" || name == "" {
		return nil, apperrors.NewParamsError("username and name are required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewParamsError("password must be at least 8 characters")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewParamsError("username already taken")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Username:     username,
		Name:         name,
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewIdentityError("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewIdentityError("invalid credentials")
	}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// BindCard attaches the campus card number that verifies the account.
func (s *AuthService) BindCard(ctx context.Context, principal *domain.Principal, cardNumber string) (*domain.User, error) {
	user := principal.User
	if user == nil {
		return nil, apperrors.NewIdentityError("")
	}
	cardNumber = strings.TrimSpace(cardNumber)
	if cardNumber == "" {
		return nil, apperrors.NewParamsError("card number is required")
	}
	if user.CardNumber != "" {
		return nil, apperrors.NewDomainRule(6, "account already has a bound card")
	}

	if existing, err := s.users.GetByCardNumber(ctx, cardNumber); err == nil && existing.ID != user.ID {
		return nil, apperrors.NewDomainRule(7, "card number already bound to another account")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	user.CardNumber = cardNumber
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile persists contact defaults used to prefill submissions.
func (s *AuthService) UpdateProfile(ctx context.Context, principal *domain.Principal, phone, address string) (*domain.User, error) {
	user := principal.User
	if user == nil {
		return nil, apperrors.NewIdentityError("")
	}
	user.Phone = strings.TrimSpace(phone)
	user.Address = strings.TrimSpace(address)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
