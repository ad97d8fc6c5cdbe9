package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
)

// ProviderEvent is the audit row for every authenticated webhook delivery.
// The unique (provider, event_id) index doubles as the dedupe guard: Stripe
// delivers at-least-once, so redeliveries hit the index instead of the
// business logic.
type ProviderEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Provider    string         `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_events_provider_event,priority:1"`
	EventID     string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_events_provider_event,priority:2"`
	EventType   string         `gorm:"type:varchar(64);not null"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt   time.Time  `gorm:"precision:3;not null"`
	ProcessedAt  *time.Time `gorm:"precision:3"`
	ProcessError *string    `gorm:"type:varchar(255)"`
}

func (ProviderEvent) TableName() string { return "provider_events" }

type WebhookService struct {
	db         *gorm.DB
	reconciler *Reconciler
	logger     *slog.Logger
}

func NewWebhookService(db *gorm.DB, reconciler *Reconciler) *WebhookService {
	return &WebhookService{db: db, reconciler: reconciler, logger: slog.Default()}
}

func (s *WebhookService) SetLogger(logger *slog.Logger) { s.logger = logger }

type WebhookOutcome struct {
	DonationID string
	Applied    bool // pending -> paid happened in this call
	Duplicate  bool // event was already recorded, nothing reprocessed
}

// Handle persists the authenticated event and applies the reconciliation in
// one transaction. An error return means "tell the gateway to retry": after a
// failed store write the 5xx response is the recovery path. Reference errors
// (unknown or missing donation id) are recorded on the event row and do NOT
// propagate, since no amount of retrying fixes a bad reference.
func (s *WebhookService) Handle(ctx context.Context, providerName string, ev WebhookEvent, rawBody []byte) (WebhookOutcome, error) {
	payload, _ := json.RawMessage(rawBody).MarshalJSON()

	var out WebhookOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		pe := ProviderEvent{
			ID:          uuid.NewString(),
			Provider:    providerName,
			EventID:     ev.EventID,
			EventType:   ev.Type,
			PayloadJSON: datatypes.JSON(payload),
			ReceivedAt:  now,
		}

		if err := tx.WithContext(ctx).Create(&pe).Error; err != nil {
			if isDup(err) {
				s.logger.InfoContext(ctx, "webhook event deduplicated",
					"provider", providerName, "event_id", ev.EventID, "type", ev.Type)
				out.Duplicate = true
				return nil
			}
			s.logger.ErrorContext(ctx, "failed to persist provider event",
				"provider", providerName, "event_id", ev.EventID, "err", err)
			return err
		}

		var processErr error
		switch ev.Type {
		case EventCheckoutCompleted:
			processErr = s.applyCheckoutCompleted(ctx, tx, ev, &out)
		default:
			// Acknowledged and ignored; still marked processed for the audit trail.
		}

		if processErr != nil {
			if isReferenceError(processErr) {
				// Recorded but acknowledged: the gateway retrying an event
				// that points at a nonexistent donation changes nothing.
				msg := truncate(processErr.Error(), 250)
				s.logger.WarnContext(ctx, "webhook event references unknown donation",
					"provider", providerName, "event_id", ev.EventID, "err", msg)
				return tx.WithContext(ctx).Model(&ProviderEvent{}).
					Where("id = ?", pe.ID).
					Updates(map[string]any{"process_error": msg}).Error
			}

			msg := truncate(processErr.Error(), 250)
			if err := tx.WithContext(ctx).Model(&ProviderEvent{}).
				Where("id = ?", pe.ID).
				Updates(map[string]any{"process_error": msg}).Error; err != nil {
				return err
			}
			s.logger.ErrorContext(ctx, "webhook event apply failed",
				"provider", providerName, "event_id", ev.EventID, "type", ev.Type, "error", msg)
			// Propagate so the handler answers 5xx and the gateway retries.
			return processErr
		}

		processed := now
		return tx.WithContext(ctx).Model(&ProviderEvent{}).
			Where("id = ?", pe.ID).
			Updates(map[string]any{"processed_at": &processed, "process_error": nil}).Error
	})
	if err != nil {
		return WebhookOutcome{}, err
	}

	if !out.Duplicate {
		s.logger.InfoContext(ctx, "webhook event processed",
			"provider", providerName, "event_id", ev.EventID, "type", ev.Type,
			"donation_id", out.DonationID, "applied", out.Applied)
	}
	return out, nil
}

func (s *WebhookService) applyCheckoutCompleted(ctx context.Context, tx *gorm.DB, ev WebhookEvent, out *WebhookOutcome) error {
	donationID := ev.Metadata[MetadataDonationID]
	if donationID == "" {
		return ErrMissingDonationID
	}
	out.DonationID = donationID

	applied, err := s.reconciler.MarkPaidTx(ctx, tx, donationID)
	if err != nil {
		return err
	}
	out.Applied = applied
	return nil
}

func isReferenceError(err error) bool {
	return errors.Is(err, ErrMissingDonationID) || errors.Is(err, donations.ErrNotFound)
}

func isDup(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	// sqlite (tests) reports unique violations as a plain error string
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
