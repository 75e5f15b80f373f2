package dto

import (
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// UserResponse defines the structure for API responses containing user details.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
