package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/auth"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
)

// Context keys set by Auth
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	NameKey   = "name"
	TokenKey  = "jwtToken"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenStr string) (*auth.Claims, error)
}

// PermissionChecker answers admin and permission lookups for the signed-in user
type PermissionChecker interface {
	IsUserAdmin(ctx context.Context, uid string) (bool, error)
	GetUserPermissions(ctx context.Context, email string) (domain.Permissions, error)
}

// Auth validates the bearer token. Websocket clients, which cannot set
// headers, may pass the token in the "token" query parameter instead.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		claims, err := validator.ValidateToken(ctx, tokenString)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(NameKey, claims.Name)
		c.Set(TokenKey, tokenString)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAdmin lets only users listed in the admins collection through
func RequireAdmin(checker PermissionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, err := checker.IsUserAdmin(c.Request.Context(), c.GetString(UserIDKey))
		if err != nil {
			response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to check permissions")
			return
		}
		if !isAdmin {
			response.AbortWithError(c, http.StatusForbidden, response.ErrCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// RequirePermission lets through admins and employees holding perm
func RequirePermission(checker PermissionChecker, perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		isAdmin, err := checker.IsUserAdmin(ctx, c.GetString(UserIDKey))
		if err != nil {
			response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to check permissions")
			return
		}
		if isAdmin {
			c.Next()
			return
		}

		perms, err := checker.GetUserPermissions(ctx, c.GetString(EmailKey))
		if err != nil {
			response.AbortWithError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to check permissions")
			return
		}
		if !perms.Allows(perm) {
			response.AbortWithError(c, http.StatusForbidden, response.ErrCodeForbidden, "Missing permission: "+string(perm))
			return
		}
		c.Next()
	}
}
