package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
)

// gatewayTimeout bounds every outbound payment-gateway call; the transport
// itself enforces nothing.
const gatewayTimeout = 10 * time.Second

func gatewayContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), gatewayTimeout)
}

func validLinkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func newDonationMessage(d donations.Donation) map[string]any {
	return map[string]any{
		"type":     "new_donation",
		"donation": d,
	}
}

func snapshotMessage(list []donations.Donation, totalCents int64) ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":        "snapshot",
		"donations":   list,
		"total_cents": totalCents,
	})
}
