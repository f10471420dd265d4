package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
)

// Checker reports whether a dependency is usable
type Checker func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Checker
	logger *zap.Logger
}

// NewHealthHandler creates a handler; checks run on /ready only
func NewHealthHandler(checks map[string]Checker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "dependency": name})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetOptions godoc
// @Summary      Selectable form values
// @Description  Units of the product form and roles of the employee form
// @Tags         options
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.SuccessResponse{data=dto.OptionsResponse}
// @Router       /options [get]
func GetOptions(c *gin.Context) {
	response.SendSuccess(c, http.StatusOK, dto.OptionsResponse{
		Units: domain.UnitOptions,
		Roles: domain.RoleOptions,
	})
}
