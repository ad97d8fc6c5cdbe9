package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Wilcohennink/e-wall-of-fame/internal/config"
	apphttp "github.com/Wilcohennink/e-wall-of-fame/internal/http"
	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/payments"
	"github.com/Wilcohennink/e-wall-of-fame/internal/storage"
	"github.com/Wilcohennink/e-wall-of-fame/internal/ws"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(logger)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	var provider payments.Provider
	switch cfg.PaymentProvider {
	case "mock":
		provider = payments.NewMockProvider(cfg.MockWebhookSecret)
	default:
		provider = payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
	logger.Info("payment provider selected", "provider", provider.Name())

	media, err := storage.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("media storage: %v", err)
	}
	logger.Info("media storage ready", "driver", media.Driver)

	localPhotoDir := ""
	if l, ok := media.Storage.(*storage.Local); ok {
		localPhotoDir = l.BaseDir
	}

	hub := ws.NewHub(logger)

	r := apphttp.NewRouter(apphttp.RouterDeps{
		Logger:        logger,
		DB:            db,
		Provider:      provider,
		Media:         media.Storage,
		Hub:           hub,
		AppBaseURL:    cfg.AppBaseURL,
		LocalPhotoDir: localPhotoDir,
	})

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server starting", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
