package dto

import "rentals-api/domain"

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for self-service profile updates.
// All fields are optional.
type UpdateProfileRequest struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty" binding:"omitempty,email"`
	Password        string `json:"password,omitempty" binding:"omitempty,min=6"`
	PasswordConfirm string `json:"passwordConfirm,omitempty"`
	Role            string `json:"role,omitempty" binding:"omitempty,oneof=admin customer"`
}

// TokenResponse is returned whenever a session token is issued.
type TokenResponse struct {
	Status string      `json:"status"`
	Token  string      `json:"token"`
	User   domain.User `json:"user"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Status string      `json:"status"`
	User   domain.User `json:"user"`
}

// UsersResponse wraps the admin user listing, passwords excluded.
type UsersResponse struct {
	Status  string              `json:"status"`
	Results int                 `json:"results"`
	Users   []domain.PublicUser `json:"users"`
}

// MessageResponse is a plain confirmation response.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
