package donations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type InsertParams struct {
	DonorName   string
	AmountCents int
	PhotoURL    *string
	LinkURL     *string
}

// Insert creates a pending record. The id generated here is the correlation
// key carried in the checkout session metadata; nothing else ties a gateway
// notification back to this row.
func (r *Repo) Insert(ctx context.Context, in InsertParams) (Donation, error) {
	name := strings.TrimSpace(in.DonorName)
	if name == "" || in.AmountCents <= 0 {
		return Donation{}, ErrInvalidRecord
	}

	now := time.Now()
	d := Donation{
		ID:          uuid.NewString(),
		DonorName:   name,
		AmountCents: in.AmountCents,
		Currency:    "EUR",
		PhotoURL:    in.PhotoURL,
		LinkURL:     in.LinkURL,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return Donation{}, err
	}
	return d, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (Donation, error) {
	var d Donation
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Donation{}, ErrNotFound
	}
	if err != nil {
		return Donation{}, err
	}
	return d, nil
}

// MarkPaidIfPending flips status pending -> paid with a single conditional
// UPDATE. The WHERE clause is the synchronization primitive: two concurrent
// callers cannot both see RowsAffected == 1. Returns false without error when
// the record is already paid.
func (r *Repo) MarkPaidIfPending(ctx context.Context, id string) (bool, error) {
	return MarkPaidIfPendingTx(ctx, r.db, id)
}

// MarkPaidIfPendingTx is the same conditional write running inside a caller
// owned transaction (the webhook pipeline persists the provider event and the
// transition atomically).
func MarkPaidIfPendingTx(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	now := time.Now()
	res := tx.WithContext(ctx).Model(&Donation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     StatusPaid,
			"paid_at":    &now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	// No row matched: either already paid (fine) or the id is unknown.
	var cnt int64
	if err := tx.WithContext(ctx).Model(&Donation{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	if cnt == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

// ListByAmount returns the wall, biggest donors first.
func (r *Repo) ListByAmount(ctx context.Context) ([]Donation, error) {
	var out []Donation
	err := r.db.WithContext(ctx).
		Order("amount_cents DESC, created_at ASC").
		Find(&out).Error
	return out, err
}

// TotalPaidCents sums paid records only; a record counts once regardless of
// how many times its reconciliation was retried.
func (r *Repo) TotalPaidCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Donation{}).
		Where("status = ?", StatusPaid).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
