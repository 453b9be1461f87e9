package account

import "time"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Bio      string `json:"bio" binding:"max=500"`
}

// LoginRequest represents a username/password login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Bio *string `json:"bio,omitempty"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FollowResponse represents the result of a follow toggle.
type FollowResponse struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}
