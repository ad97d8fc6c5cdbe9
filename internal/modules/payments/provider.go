package payments

import (
	"context"
	"net/http"
)

const (
	// EventCheckoutCompleted is the only event type that drives a
	// reconciliation; everything else is acknowledged and dropped.
	EventCheckoutCompleted = "checkout.session.completed"

	// IntentSucceeded is the payment-intent status accepted as proof of
	// payment on the client-pull verification path.
	IntentSucceeded = "succeeded"

	// MetadataDonationID is the metadata key correlating a checkout session
	// with a donation row. Set at session creation, read on both channels.
	MetadataDonationID = "donation_id"
)

type CreateSessionRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

type Session struct {
	ID              string
	AmountCents     int64 // line-item total as the gateway recorded it
	Metadata        map[string]string
	PaymentIntentID string
	PaymentStatus   string // paid|unpaid|no_payment_required
}

type PaymentIntent struct {
	ID     string
	Status string // succeeded|processing|requires_payment_method|...
}

type WebhookEvent struct {
	EventID   string
	Type      string
	SessionID string
	Metadata  map[string]string // session metadata, only set for checkout events
}

type Provider interface {
	Name() string

	// CreateCheckoutSession returns the gateway-issued session id. The
	// pending donation row referenced by req.Metadata must already exist;
	// this call never touches the store.
	CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (string, error)

	RetrieveSession(ctx context.Context, sessionID string) (Session, error)
	RetrievePaymentIntent(ctx context.Context, intentID string) (PaymentIntent, error)

	// VerifyAndParseWebhook: raw bytes + signature header -> authenticated
	// event. Verification runs over the exact bytes received; callers must
	// not decode the body first. Returns ErrSignatureInvalid (wrapped) when
	// the payload cannot be trusted.
	VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error)
}
