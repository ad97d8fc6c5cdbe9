package payments

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Wilcohennink/e-wall-of-fame/internal/modules/donations"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&donations.Donation{}, &ProviderEvent{}))
	return db
}

func insertPending(t *testing.T, db *gorm.DB, amountCents int) donations.Donation {
	t.Helper()
	d, err := donations.NewRepo(db).Insert(context.Background(), donations.InsertParams{
		DonorName:   "Test Donor",
		AmountCents: amountCents,
	})
	require.NoError(t, err)
	return d
}

func donationStatus(t *testing.T, db *gorm.DB, id string) string {
	t.Helper()
	d, err := donations.NewRepo(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return d.Status
}
