package response

import (
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type AuthResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	AccessToken string    `json:"access_token,omitempty"`
}

func FromAuthResult(r *commands.AuthResult) *AuthResponse {
	return &AuthResponse{
		UserID:      r.UserID,
		Email:       r.Email,
		Username:    r.Username,
		Role:        string(r.Role),
		AccessToken: r.AccessToken,
	}
}
