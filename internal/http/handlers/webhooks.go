package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/payments"
	"github.com/Wilcohennink/e-wall-of-fame/internal/ws"
)

type WebhookHandler struct {
	Logger     *slog.Logger
	Provider   payments.Provider
	WebhookSvc *payments.WebhookService
	Repo       *donations.Repo
	Hub        *ws.Hub
}

func NewWebhookHandler(logger *slog.Logger, p payments.Provider, svc *payments.WebhookService, repo *donations.Repo, hub *ws.Hub) *WebhookHandler {
	return &WebhookHandler{Logger: logger, Provider: p, WebhookSvc: svc, Repo: repo, Hub: hub}
}

// POST /webhook
// Two-stage pipeline: (1) raw bytes + signature header -> authenticated
// event, (2) authenticated event -> reconciliation. The body must stay
// unparsed until the signature check has run over the exact received bytes.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid body"})
		return
	}

	ev, err := h.Provider.VerifyAndParseWebhook(c.Request.Header, body)
	if err != nil {
		// 4xx so the gateway's retry logic is not misled into success.
		h.Logger.Warn("webhook rejected", "provider", h.Provider.Name(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"received": false, "error": "invalid signature or payload"})
		return
	}

	out, err := h.WebhookSvc.Handle(c.Request.Context(), h.Provider.Name(), ev, body)
	if err != nil {
		// 5xx: the gateway retry is the recovery path for store failures.
		h.Logger.Error("webhook apply failed", "event_id", ev.EventID, "type", ev.Type, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"received": false})
		return
	}

	if out.Applied {
		h.broadcastPaid(c, out.DonationID)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) broadcastPaid(c *gin.Context, donationID string) {
	d, err := h.Repo.GetByID(c.Request.Context(), donationID)
	if err != nil {
		h.Logger.Error("failed to load donation for broadcast", "donation_id", donationID, "err", err)
		return
	}
	h.Hub.Broadcast(newDonationMessage(d))
}
