package payments

import "errors"

var (
	ErrSignatureInvalid  = errors.New("webhook signature invalid")
	ErrMissingDonationID = errors.New("event metadata missing donation_id")
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrIntentNotFound    = errors.New("payment intent not found")
)
