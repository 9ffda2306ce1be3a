package dto

import "time"

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest authenticates an account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// BindCardRequest attaches the campus card number.
type BindCardRequest struct {
	CardNumber string `json:"card_number"`
}

// UpdateProfileRequest persists contact defaults.
type UpdateProfileRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Verified bool   `json:"verified"`
	IsAdmin  bool   `json:"is_admin"`
}
