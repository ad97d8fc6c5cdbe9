package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wilcohennink/e-wall-of-fame/internal/http/middleware"
	"github.com/Wilcohennink/e-wall-of-fame/internal/http/validation"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/payments"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
)

type CheckoutHandler struct {
	Logger   *slog.Logger
	Checkout *payments.CheckoutService
}

func NewCheckoutHandler(logger *slog.Logger, svc *payments.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Logger: logger, Checkout: svc}
}

type createSessionRequest struct {
	AmountCents int64             `json:"amount_cents" binding:"required,gt=0"`
	Metadata    map[string]string `json:"metadata"`
	SuccessURL  string            `json:"success_url" binding:"required"`
	CancelURL   string            `json:"cancel_url" binding:"required"`
}

// POST /api/checkout-session
// The pending donation referenced by metadata.donation_id must already
// exist; this endpoint only talks to the gateway.
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("amount_cents, success_url and cancel_url are required.", fields))
		return
	}

	ctx, cancel := gatewayContext(c)
	defer cancel()

	sessionID, err := h.Checkout.CreateSession(ctx, payments.CreateSessionInput{
		AmountCents: req.AmountCents,
		Metadata:    req.Metadata,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}
