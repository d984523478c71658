package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	VoucherStatusUpcoming = "UPCOMING"
	VoucherStatusOngoing  = "ONGOING"
	VoucherStatusEnded    = "ENDED"
)

type Voucher struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	VoucherCode string          `gorm:"size:50;not null;index" json:"voucherCode"`
	MinSpend    decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"minSpend"`

	// Exactly one discount mode is expected per voucher: a percentage with an
	// absolute cap, or a flat value.
	DiscountCap        *decimal.Decimal `gorm:"type:decimal(16,2)" json:"discountCap"`
	DiscountPercentage *int             `json:"discountPercentage"`
	DiscountValue      *decimal.Decimal `gorm:"type:decimal(16,2)" json:"discountValue"`

	UsageLimitPerUser int       `gorm:"not null;default:1" json:"usageLimitPerUser"`
	MaxCount          int       `gorm:"not null" json:"maxCount"`
	UsedCount         int       `gorm:"not null;default:0" json:"usedCount"`
	StartTime         time.Time `gorm:"not null;index" json:"startTime"`
	EndTime           time.Time `gorm:"not null;index" json:"endTime"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Status is derived from the validity window on every read, never stored.
func (v *Voucher) Status(now time.Time) string {
	switch {
	case now.Before(v.StartTime):
		return VoucherStatusUpcoming
	case now.After(v.EndTime):
		return VoucherStatusEnded
	default:
		return VoucherStatusOngoing
	}
}

// VoucherUsed is the per-user redemption counter.
type VoucherUsed struct {
	VoucherID uint      `gorm:"primaryKey" json:"voucherId"`
	UserID    string    `gorm:"primaryKey;size:36" json:"userId"`
	Voucher   Voucher   `gorm:"foreignKey:VoucherID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
