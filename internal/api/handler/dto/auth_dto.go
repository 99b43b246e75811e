package dto

import (
	"time"

	"loan-management/internal/domain/user"
)

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

func (r RegisterRequest) ToParams() user.RegisterParams {
	return user.RegisterParams{Name: r.Name, Email: r.Email, Password: r.Password}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func NewAuthResponse(res *user.AuthResult) AuthResponse {
	if res == nil || res.User == nil {
		return AuthResponse{}
	}
	return AuthResponse{
		User: UserResponse{
			ID:        res.User.ID,
			Name:      res.User.Name,
			Email:     res.User.Email,
			CreatedAt: res.User.CreatedAt,
			UpdatedAt: res.User.UpdatedAt,
		},
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
	}
}
