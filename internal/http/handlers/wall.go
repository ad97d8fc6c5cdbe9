package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/Wilcohennink/e-wall-of-fame/internal/http/middleware"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/money"
	"github.com/Wilcohennink/e-wall-of-fame/internal/ws"
)

type WallHandler struct {
	Logger     *slog.Logger
	Repo       *donations.Repo
	Hub        *ws.Hub
	AppBaseURL string
}

func NewWallHandler(logger *slog.Logger, repo *donations.Repo, hub *ws.Hub, appBaseURL string) *WallHandler {
	return &WallHandler{Logger: logger, Repo: repo, Hub: hub, AppBaseURL: appBaseURL}
}

// GET /api/wall — donations ranked by amount, plus the running total.
func (h *WallHandler) GetWall(c *gin.Context) {
	list, err := h.Repo.ListByAmount(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	total, err := h.Repo.TotalPaidCents(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"donations":       list,
		"total_cents":     total,
		"total_formatted": money.Format("EUR", total),
	})
}

// GET /ws — wall pages subscribe here; they get a snapshot on connect and a
// new_donation message for every pending->paid transition afterwards.
func (h *WallHandler) ServeWS(c *gin.Context) {
	list, err := h.Repo.ListByAmount(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	total, err := h.Repo.TotalPaidCents(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	snapshot, err := snapshotMessage(list, total)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	if err := h.Hub.HandleUpgrade(c.Writer, c.Request, snapshot); err != nil {
		// Upgrade already wrote the handshake failure to the client.
		h.Logger.Warn("websocket upgrade failed", "err", err)
	}
}

// GET /qrcode — PNG pointing at the donate page, for the physical wall.
func (h *WallHandler) QRCode(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "256"))
	if err != nil || size < 64 || size > 1024 {
		size = 256
	}

	png, err := qrcode.Encode(h.AppBaseURL, qrcode.Medium, size)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /healthz
func (h *WallHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
