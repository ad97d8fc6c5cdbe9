package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
	"github.com/Wilcohennink/e-wall-of-fame/internal/shared/apperr"
)

func TestVerifySucceededIntentReconciles(t *testing.T) {
	db := newTestDB(t)
	p := NewMockProvider(testSecret)
	svc := NewVerifyService(p, NewReconciler(db))
	ctx := context.Background()

	d := insertPending(t, db, 2500)
	sessionID, err := p.CreateCheckoutSession(ctx, CreateSessionRequest{
		AmountCents: 2500,
		Metadata:    map[string]string{MetadataDonationID: d.ID},
		SuccessURL:  "http://localhost/success",
		CancelURL:   "http://localhost/cancel",
	})
	require.NoError(t, err)
	require.NoError(t, p.CompletePayment(sessionID))

	res, err := svc.VerifySession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.True(t, res.Applied)
	assert.Equal(t, d.ID, res.DonationID)
	assert.Equal(t, IntentSucceeded, res.IntentStatus)
	assert.Equal(t, donations.StatusPaid, donationStatus(t, db, d.ID))

	// Second verification of the same session: still reconciled, but the
	// transition already happened.
	res, err = svc.VerifySession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.False(t, res.Applied)
}

func TestVerifyUnpaidIntentLeavesPending(t *testing.T) {
	db := newTestDB(t)
	p := NewMockProvider(testSecret)
	svc := NewVerifyService(p, NewReconciler(db))
	ctx := context.Background()

	d := insertPending(t, db, 2500)
	sessionID, err := p.CreateCheckoutSession(ctx, CreateSessionRequest{
		AmountCents: 2500,
		Metadata:    map[string]string{MetadataDonationID: d.ID},
		SuccessURL:  "http://localhost/success",
		CancelURL:   "http://localhost/cancel",
	})
	require.NoError(t, err)

	res, err := svc.VerifySession(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, res.Reconciled)
	assert.Equal(t, "requires_payment_method", res.IntentStatus)
	assert.Equal(t, donations.StatusPending, donationStatus(t, db, d.ID))
}

func TestVerifyUnknownSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewVerifyService(NewMockProvider(testSecret), NewReconciler(db))

	_, err := svc.VerifySession(context.Background(), "cs_mock_missing")
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.NotFound, ae.Kind)
}

func TestVerifyAfterWebhookRace(t *testing.T) {
	db := newTestDB(t)
	p := NewMockProvider(testSecret)
	r := NewReconciler(db)
	svc := NewVerifyService(p, r)
	ctx := context.Background()

	d := insertPending(t, db, 5000)
	sessionID, err := p.CreateCheckoutSession(ctx, CreateSessionRequest{
		AmountCents: 5000,
		Metadata:    map[string]string{MetadataDonationID: d.ID},
		SuccessURL:  "http://localhost/success",
		CancelURL:   "http://localhost/cancel",
	})
	require.NoError(t, err)
	require.NoError(t, p.CompletePayment(sessionID))

	// Webhook arrives first.
	applied, err := r.MarkPaid(ctx, d.ID)
	require.NoError(t, err)
	require.True(t, applied)

	// The pull channel still reports the donation as reconciled.
	res, err := svc.VerifySession(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.False(t, res.Applied)
	assert.Equal(t, donations.StatusPaid, donationStatus(t, db, d.ID))
}
