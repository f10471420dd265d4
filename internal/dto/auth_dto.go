package dto

import (
	"time"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@chuchin.mx"`
	Password string `json:"password" binding:"required" example:"secreto1"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required" example:"admin@chuchin.mx"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ReauthenticateRequest struct {
	Password string `json:"password" binding:"required"`
}

// PermissionsResponse describes what the signed-in user may open
type PermissionsResponse struct {
	UserID      string             `json:"userId"`
	Email       string             `json:"email"`
	IsAdmin     bool               `json:"isAdmin"`
	Permissions domain.Permissions `json:"permissions"`
}
