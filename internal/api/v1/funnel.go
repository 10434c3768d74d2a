package v1

import (
	"net/http"

	"github.com/funnelkit/funnelkit/internal/api/dto"
	"github.com/funnelkit/funnelkit/internal/logger"
	"github.com/funnelkit/funnelkit/internal/service"
	"github.com/gin-gonic/gin"
)

type FunnelHandler struct {
	sessions service.SessionService
	log      *logger.Logger
}

func NewFunnelHandler(sessions service.SessionService, log *logger.Logger) *FunnelHandler {
	return &FunnelHandler{sessions: sessions, log: log}
}

// GetFunnel serves the immutable funnel document the step views render from.
// A funnel that is still initializing yields a not-ready error rather than a
// partial document.
func (h *FunnelHandler) GetFunnel(c *gin.Context) {
	cfg := h.sessions.Funnel()
	if err := cfg.Validate(); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ToFunnelResponse(cfg))
}
