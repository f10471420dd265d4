package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/middleware"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
)

type NotificationHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewNotificationHandler accepts upgrades from the same origins the CORS
// middleware allows. Requests without an Origin header come from non-browser
// clients and are let through.
func NewNotificationHandler(hub *notify.Hub, origins middleware.Origins, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins.Allows(origin)
			},
		},
		logger: logger,
	}
}

// HandleWebSocket godoc
// @Summary      Notification stream
// @Description  Upgrades to a websocket that receives the toasts of the user's submissions.
// @Description  Browsers pass the JWT in the token query parameter.
// @Tags         notifications
// @Param        token query string true "JWT"
// @Success      101
// @Failure      401 {object} response.ErrorResponse
// @Router       /ws/notifications [get]
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("origin", c.GetHeader("Origin")), zap.Error(err))
		return
	}

	h.hub.Serve(conn, userID)
}
