package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

const stripeSignatureHeader = "Stripe-Signature"

// StripeProvider adapts the hosted-checkout flow to Stripe. Session creation
// goes through the checkout/session package; retrieval uses the v82 client so
// the call carries a context.
type StripeProvider struct {
	client        *stripe.Client
	webhookSecret string
	productName   string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		client:        stripe.NewClient(secretKey),
		webhookSecret: webhookSecret,
		productName:   "Donation to E-Wall of Fame",
	}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card", "ideal", "bancontact", "eps",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.productName),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata:   req.Metadata,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok {
			return "", fmt.Errorf("stripe checkout session: %s", stripeErr.Msg)
		}
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	return s.ID, nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, sessionID string) (Session, error) {
	s, err := p.client.V1CheckoutSessions.Retrieve(ctx, sessionID, nil)
	if err != nil {
		return Session{}, fmt.Errorf("stripe retrieve session: %w", err)
	}

	out := Session{
		ID:            s.ID,
		AmountCents:   s.AmountTotal,
		Metadata:      s.Metadata,
		PaymentStatus: string(s.PaymentStatus),
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out, nil
}

func (p *StripeProvider) RetrievePaymentIntent(ctx context.Context, intentID string) (PaymentIntent, error) {
	pi, err := p.client.V1PaymentIntents.Retrieve(ctx, intentID, nil)
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("stripe retrieve payment intent: %w", err)
	}
	return PaymentIntent{ID: pi.ID, Status: string(pi.Status)}, nil
}

func (p *StripeProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error) {
	// ConstructEvent checks the signature over the raw, unparsed bytes.
	event, err := webhook.ConstructEvent(body, headers.Get(stripeSignatureHeader), p.webhookSecret)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	ev := WebhookEvent{EventID: event.ID, Type: string(event.Type)}
	if ev.Type == EventCheckoutCompleted {
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return WebhookEvent{}, fmt.Errorf("parse checkout session payload: %w", err)
		}
		ev.SessionID = cs.ID
		ev.Metadata = cs.Metadata
	}
	return ev, nil
}
