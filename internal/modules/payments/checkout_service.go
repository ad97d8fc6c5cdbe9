package payments

import (
	"context"
	"log/slog"

	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
)

const defaultCurrency = "eur"

// CheckoutService asks the gateway for a hosted checkout session. It never
// touches the donation store: the pending record referenced by the metadata
// must exist before this runs, created by the submission flow.
type CheckoutService struct {
	provider Provider
	logger   *slog.Logger
}

func NewCheckoutService(p Provider) *CheckoutService {
	return &CheckoutService{provider: p, logger: slog.Default()}
}

func (s *CheckoutService) SetLogger(logger *slog.Logger) { s.logger = logger }

type CreateSessionInput struct {
	AmountCents int64
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

func (s *CheckoutService) CreateSession(ctx context.Context, in CreateSessionInput) (string, error) {
	fields := map[string]string{}
	if in.AmountCents <= 0 {
		fields["amount_cents"] = "must be a positive integer (minor units)"
	}
	if in.SuccessURL == "" {
		fields["success_url"] = "required"
	}
	if in.CancelURL == "" {
		fields["cancel_url"] = "required"
	}
	if in.Metadata[MetadataDonationID] == "" {
		fields["metadata."+MetadataDonationID] = "required"
	}
	if len(fields) > 0 {
		return "", apperr.InvalidErr("amount_cents, success_url and cancel_url are required.", fields)
	}

	sessionID, err := s.provider.CreateCheckoutSession(ctx, CreateSessionRequest{
		AmountCents: in.AmountCents,
		Currency:    defaultCurrency,
		Metadata:    in.Metadata,
		SuccessURL:  in.SuccessURL,
		CancelURL:   in.CancelURL,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout session creation failed",
			"provider", s.provider.Name(), "donation_id", in.Metadata[MetadataDonationID], "err", err)
		return "", apperr.UpstreamErr("Payment provider unavailable.", err)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		"provider", s.provider.Name(), "session_id", sessionID,
		"donation_id", in.Metadata[MetadataDonationID], "amount_cents", in.AmountCents)
	return sessionID, nil
}
