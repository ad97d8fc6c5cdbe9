package donations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Donation{}))
	return db
}

func strPtr(s string) *string { return &s }

// The migrated schema must carry the same indexes the bootstrap tool creates.
func TestMigratedIndexes(t *testing.T) {
	db := newTestDB(t)
	m := db.Migrator()
	assert.True(t, m.HasIndex(&Donation{}, "ix_donations_status"))
	assert.True(t, m.HasIndex(&Donation{}, "ix_donations_amount"))
}

func TestInsertAndGet(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	d, err := repo.Insert(ctx, InsertParams{
		DonorName:   "Wilco",
		AmountCents: 2500,
		LinkURL:     strPtr("https://example.com"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, StatusPending, d.Status)
	assert.Equal(t, "EUR", d.Currency)
	assert.Nil(t, d.PaidAt)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wilco", got.DonorName)
	assert.Equal(t, 2500, got.AmountCents)
	require.NotNil(t, got.LinkURL)
	assert.Equal(t, "https://example.com", *got.LinkURL)
}

func TestInsertValidation(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, InsertParams{DonorName: "  ", AmountCents: 100})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = repo.Insert(ctx, InsertParams{DonorName: "x", AmountCents: 0})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = repo.Insert(ctx, InsertParams{DonorName: "x", AmountCents: -5})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkPaidIfPending(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	d, err := repo.Insert(ctx, InsertParams{DonorName: "Anna", AmountCents: 1000})
	require.NoError(t, err)

	applied, err := repo.MarkPaidIfPending(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.NotNil(t, got.PaidAt)

	// Second call is a no-op, not an error.
	applied, err = repo.MarkPaidIfPending(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, applied)

	// Still paid, still one record.
	got, err = repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
}

func TestMarkPaidUnknownID(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	_, err := repo.MarkPaidIfPending(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkPaidNeverMutatesOtherFields(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	d, err := repo.Insert(ctx, InsertParams{
		DonorName:   "Bert",
		AmountCents: 7700,
		PhotoURL:    strPtr("https://cdn.example.com/p.png"),
	})
	require.NoError(t, err)

	_, err = repo.MarkPaidIfPending(ctx, d.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bert", got.DonorName)
	assert.Equal(t, 7700, got.AmountCents)
	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, "https://cdn.example.com/p.png", *got.PhotoURL)
}

func TestListByAmountOrdering(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	for _, in := range []InsertParams{
		{DonorName: "small", AmountCents: 500},
		{DonorName: "big", AmountCents: 10000},
		{DonorName: "mid", AmountCents: 2500},
	} {
		_, err := repo.Insert(ctx, in)
		require.NoError(t, err)
	}

	list, err := repo.ListByAmount(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "big", list[0].DonorName)
	assert.Equal(t, "mid", list[1].DonorName)
	assert.Equal(t, "small", list[2].DonorName)
}

func TestTotalPaidCentsCountsPaidOnce(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	paid, err := repo.Insert(ctx, InsertParams{DonorName: "paid", AmountCents: 2500})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, InsertParams{DonorName: "pending", AmountCents: 9999})
	require.NoError(t, err)

	total, err := repo.TotalPaidCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	// Reconciling twice must not double count.
	_, err = repo.MarkPaidIfPending(ctx, paid.ID)
	require.NoError(t, err)
	_, err = repo.MarkPaidIfPending(ctx, paid.ID)
	require.NoError(t, err)

	total, err = repo.TotalPaidCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), total)
}
