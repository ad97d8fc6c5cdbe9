package donations

import "time"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

type Donation struct {
	ID          string     `gorm:"type:char(36);primaryKey" json:"id"`
	DonorName   string     `gorm:"type:varchar(120);not null" json:"donor_name"`
	AmountCents int        `gorm:"not null;index:ix_donations_amount" json:"amount_cents"`
	Currency    string     `gorm:"type:char(3);not null;default:'EUR'" json:"currency"`
	PhotoURL    *string    `gorm:"type:varchar(512)" json:"photo_url,omitempty"`
	LinkURL     *string    `gorm:"type:varchar(512)" json:"link_url,omitempty"`
	Status      string     `gorm:"type:varchar(16);not null;index:ix_donations_status" json:"status"`
	PaidAt      *time.Time `gorm:"precision:3" json:"paid_at,omitempty"`
	CreatedAt   time.Time  `gorm:"precision:3;not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"precision:3;not null" json:"updated_at"`
}

func (Donation) TableName() string { return "donations" }
