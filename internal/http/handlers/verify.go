package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Wilcohennink/e-wall-of-fame/internal/http/middleware"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/payments"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
	"github.com/Wilcohennink/e-wall-of-fame/internal/ws"
)

type VerifyHandler struct {
	Logger *slog.Logger
	Verify *payments.VerifyService
	Repo   *donations.Repo
	Hub    *ws.Hub
}

func NewVerifyHandler(logger *slog.Logger, svc *payments.VerifyService, repo *donations.Repo, hub *ws.Hub) *VerifyHandler {
	return &VerifyHandler{Logger: logger, Verify: svc, Repo: repo, Hub: hub}
}

// GET /verify-session?session_id=...
// The client-pull half of the reconciliation: called by the success page
// after the redirect back from the hosted checkout. The redirect itself
// proves nothing; only the gateway round trip here does.
func (h *VerifyHandler) VerifySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		middleware.Fail(c, apperr.InvalidErr("No session_id provided.", nil))
		return
	}

	ctx, cancel := gatewayContext(c)
	defer cancel()

	res, err := h.Verify.VerifySession(ctx, sessionID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	if res.Applied {
		d, err := h.Repo.GetByID(c.Request.Context(), res.DonationID)
		if err != nil {
			h.Logger.Error("failed to load donation for broadcast", "donation_id", res.DonationID, "err", err)
		} else {
			h.Hub.Broadcast(newDonationMessage(d))
		}
	}

	c.JSON(http.StatusOK, gin.H{"session": res})
}
