package payments

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
)

// VerifyService is the client-pull half of the reconciliation. A browser
// redirect is not proof of payment; only a fresh round trip to the gateway's
// own records is. The verifier retrieves the session, then its payment
// intent, and reconciles only on intent status "succeeded".
type VerifyService struct {
	provider   Provider
	reconciler *Reconciler
	logger     *slog.Logger
}

func NewVerifyService(p Provider, r *Reconciler) *VerifyService {
	return &VerifyService{provider: p, reconciler: r, logger: slog.Default()}
}

func (s *VerifyService) SetLogger(logger *slog.Logger) { s.logger = logger }

type VerifyResult struct {
	SessionID     string `json:"id"`
	PaymentStatus string `json:"payment_status"`
	IntentStatus  string `json:"intent_status,omitempty"`
	DonationID    string `json:"donation_id,omitempty"`
	Reconciled    bool   `json:"reconciled"` // donation is confirmed paid
	Applied       bool   `json:"-"`          // this call performed the transition
}

func (s *VerifyService) VerifySession(ctx context.Context, sessionID string) (VerifyResult, error) {
	sess, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return VerifyResult{}, apperr.NotFoundErr("Checkout session not found.")
		}
		return VerifyResult{}, apperr.UpstreamErr("Payment provider unavailable.", err)
	}

	res := VerifyResult{
		SessionID:     sess.ID,
		PaymentStatus: sess.PaymentStatus,
		DonationID:    sess.Metadata[MetadataDonationID],
	}

	// No intent yet: checkout was abandoned before a payment attempt.
	if sess.PaymentIntentID == "" {
		return res, nil
	}

	intent, err := s.provider.RetrievePaymentIntent(ctx, sess.PaymentIntentID)
	if err != nil {
		if errors.Is(err, ErrIntentNotFound) {
			return VerifyResult{}, apperr.NotFoundErr("Payment intent not found.")
		}
		return VerifyResult{}, apperr.UpstreamErr("Payment provider unavailable.", err)
	}
	res.IntentStatus = intent.Status

	if intent.Status != IntentSucceeded {
		// Not paid (yet): report and leave the record pending. Safe to retry.
		return res, nil
	}

	if res.DonationID == "" {
		return VerifyResult{}, apperr.Wrap(ErrMissingDonationID)
	}

	applied, err := s.reconciler.MarkPaid(ctx, res.DonationID)
	if err != nil {
		if errors.Is(err, donations.ErrNotFound) {
			return VerifyResult{}, apperr.NotFoundErr("Donation not found.")
		}
		return VerifyResult{}, apperr.Wrap(err)
	}
	// applied=false here means the webhook won the race; either way the
	// donation is paid now.
	res.Applied = applied
	res.Reconciled = true
	return res, nil
}
