package v1

import (
	"net/http"

	"github.com/funnelkit/funnelkit/internal/api/dto"
	ierr "github.com/funnelkit/funnelkit/internal/errors"
	"github.com/funnelkit/funnelkit/internal/logger"
	"github.com/funnelkit/funnelkit/internal/service"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	sessions service.SessionService
	log      *logger.Logger
}

func NewCheckoutHandler(sessions service.SessionService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, log: log}
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	session, err := h.sessions.Create(ctx, req.Location)
	if err != nil {
		h.log.Error("Failed to create session", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) SelectOffer(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.SelectOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	if err := session.Orchestrator.SelectOffer(req.OfferID); err != nil {
		h.log.Error("Failed to select offer", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) SetQuantity(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	session.Orchestrator.SetOfferQuantity(req.Quantity)
	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) SetKitQuantity(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.SetKitQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	session.Orchestrator.SetKitQuantity(req.Sku, req.Quantity)
	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) Complete(c *gin.Context) {
	ctx := c.Request.Context()
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.CompleteCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	session.Orchestrator.CompleteCheckout(ctx, req.PaymentRef, req.ShippingAddress, req.DraftOrderID)
	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) AcceptUpsell(c *gin.Context) {
	ctx := c.Request.Context()
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	session.Orchestrator.AcceptUpsell(ctx)
	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}

func (h *CheckoutHandler) DeclineUpsell(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	session.Orchestrator.DeclineUpsell()
	c.JSON(http.StatusOK, dto.ToSessionResponse(session.Orchestrator.Snapshot()))
}
