package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	AppBaseURL string
	ServerPort int
	DBDSN      string

	// Active gateway: "stripe" in production, "mock" for local development
	// and tests.
	PaymentProvider     string
	StripeSecretKey     string
	StripeWebhookSecret string
	MockWebhookSecret   string
}

// Load reads an optional config.yaml and the environment (env wins). Missing
// gateway secrets are a loud startup warning, never a silent no-op: the
// server still boots so the wall stays readable, but checkout will fail.
func Load(logger *slog.Logger) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetDefault("server_port", 8080)
	v.SetDefault("app_base_url", "http://localhost:8080")
	v.SetDefault("payment_provider", "stripe")

	cfg := Config{
		AppBaseURL:          v.GetString("app_base_url"),
		ServerPort:          v.GetInt("server_port"),
		DBDSN:               v.GetString("db_dsn"),
		PaymentProvider:     v.GetString("payment_provider"),
		StripeSecretKey:     v.GetString("stripe_secret_key"),
		StripeWebhookSecret: v.GetString("stripe_webhook_secret"),
		MockWebhookSecret:   v.GetString("mock_webhook_secret"),
	}

	if cfg.DBDSN == "" {
		return Config{}, errors.New("DB_DSN is required")
	}

	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			logger.Warn("STRIPE_SECRET_KEY is not set; checkout session creation will fail")
		}
		if cfg.StripeWebhookSecret == "" {
			logger.Warn("STRIPE_WEBHOOK_SECRET is not set; webhook deliveries will be rejected")
		}
	case "mock":
		if cfg.MockWebhookSecret == "" {
			logger.Warn("MOCK_WEBHOOK_SECRET is not set; mock webhook deliveries will be rejected")
		}
	default:
		return Config{}, fmt.Errorf("unknown PAYMENT_PROVIDER: %s", cfg.PaymentProvider)
	}

	return cfg, nil
}
