package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/auth"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/middleware"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
)

type AuthHandler struct {
	authService *auth.Service
	logger      *zap.Logger
}

func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login godoc
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} response.SuccessResponse{data=dto.LoginResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body", err.Error())
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		UserID:    session.UserID,
		Email:     session.Email,
		Name:      session.Name,
	})
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Issues a short-lived reset token for the account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.ForgotPasswordRequest true "Account email"
// @Success      200 {object} response.SuccessResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, nil)
}

// ResetPassword godoc
// @Summary      Set a new password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success      204
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reauthenticate godoc
// @Summary      Confirm the current password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReauthenticateRequest true "Current password"
// @Success      204
// @Failure      401 {object} response.ErrorResponse
// @Router       /auth/reauthenticate [post]
func (h *AuthHandler) Reauthenticate(c *gin.Context) {
	var req dto.ReauthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body", err.Error())
		return
	}

	if err := h.authService.Reauthenticate(c.Request.Context(), c.GetString(middleware.EmailKey), req.Password); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPermissions godoc
// @Summary      Permissions of the signed-in user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.SuccessResponse{data=dto.PermissionsResponse}
// @Failure      401 {object} response.ErrorResponse
// @Router       /me/permissions [get]
func (h *AuthHandler) GetPermissions(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.UserIDKey)
	email := c.GetString(middleware.EmailKey)

	isAdmin, err := h.authService.IsUserAdmin(ctx, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	perms, err := h.authService.GetUserPermissions(ctx, email)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.PermissionsResponse{
		UserID:      userID,
		Email:       email,
		IsAdmin:     isAdmin,
		Permissions: perms,
	})
}
