package payments

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
)

// Reconciler owns the single state transition of the system: a donation goes
// pending -> paid exactly once, no matter how many times either channel
// (webhook push, client pull) delivers proof of payment. All coordination is
// the conditional UPDATE in the donations repo; the reconciler never reads
// first and never touches another system.
type Reconciler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, logger: slog.Default()}
}

func (r *Reconciler) SetLogger(logger *slog.Logger) { r.logger = logger }

// MarkPaid applies the transition. Callers must have established proof of
// payment first (authenticated webhook event, or a freshly retrieved
// payment-intent with status succeeded). Returns applied=false without error
// when the record was already paid; returns donations.ErrNotFound for an
// unknown id.
func (r *Reconciler) MarkPaid(ctx context.Context, donationID string) (bool, error) {
	return r.MarkPaidTx(ctx, r.db, donationID)
}

// MarkPaidTx runs the transition inside a caller-owned transaction so the
// webhook pipeline can commit the provider event and the transition together.
func (r *Reconciler) MarkPaidTx(ctx context.Context, tx *gorm.DB, donationID string) (bool, error) {
	applied, err := donations.MarkPaidIfPendingTx(ctx, tx, donationID)
	if err != nil {
		return false, err
	}
	if applied {
		r.logger.InfoContext(ctx, "donation reconciled", "donation_id", donationID)
	} else {
		r.logger.InfoContext(ctx, "donation already paid, no-op", "donation_id", donationID)
	}
	return applied, nil
}
