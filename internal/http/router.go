package apphttp

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Wilcohennink/e-wall-of-fame/internal/http/handlers"
	"github.com/Wilcohennink/e-wall-of-fame/internal/http/middleware"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/payments"
	"github.com/Wilcohennink/e-wall-of-fame/internal/storage"
	"github.com/Wilcohennink/e-wall-of-fame/internal/ws"
)

type RouterDeps struct {
	Logger     *slog.Logger
	DB         *gorm.DB
	Provider   payments.Provider
	Media      storage.Storage
	Hub        *ws.Hub
	AppBaseURL string

	// LocalPhotoDir, when set, is served under /photos (local storage driver).
	LocalPhotoDir string
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	// POST-only endpoints must answer 405, not 404, so gateway retries and
	// probes are not misled.
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.ErrorHandler(d.Logger),
	)

	repo := donations.NewRepo(d.DB)

	reconciler := payments.NewReconciler(d.DB)
	reconciler.SetLogger(d.Logger)

	webhookSvc := payments.NewWebhookService(d.DB, reconciler)
	webhookSvc.SetLogger(d.Logger)

	checkoutSvc := payments.NewCheckoutService(d.Provider)
	checkoutSvc.SetLogger(d.Logger)

	verifySvc := payments.NewVerifyService(d.Provider, reconciler)
	verifySvc.SetLogger(d.Logger)

	donationH := handlers.NewDonationHandler(d.Logger, repo, d.Media)
	checkoutH := handlers.NewCheckoutHandler(d.Logger, checkoutSvc)
	webhookH := handlers.NewWebhookHandler(d.Logger, d.Provider, webhookSvc, repo, d.Hub)
	verifyH := handlers.NewVerifyHandler(d.Logger, verifySvc, repo, d.Hub)
	wallH := handlers.NewWallHandler(d.Logger, repo, d.Hub, d.AppBaseURL)

	api := r.Group("/api", gzip.Gzip(gzip.DefaultCompression))
	{
		api.POST("/donations", donationH.Create)
		api.GET("/donations/:id", donationH.Get)
		api.POST("/checkout-session", checkoutH.CreateSession)
		api.GET("/wall", wallH.GetWall)
	}

	// The gateway posts to /webhook; /webhooks/:provider is kept for
	// dashboards configured with the provider-scoped shape. One active
	// provider serves both.
	r.POST("/webhook", webhookH.Handle)
	r.POST("/webhooks/:provider", webhookH.Handle)

	r.GET("/verify-session", verifyH.VerifySession)

	// No gzip on the websocket upgrade.
	r.GET("/ws", wallH.ServeWS)
	r.GET("/qrcode", wallH.QRCode)
	r.GET("/healthz", wallH.Health)

	if d.LocalPhotoDir != "" {
		r.Static("/photos", d.LocalPhotoDir)
	}

	return r
}
