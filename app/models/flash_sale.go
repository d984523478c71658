package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FlashSaleStatusUpcoming = "UPCOMING"
	FlashSaleStatusOngoing  = "ONGOING"
	FlashSaleStatusEnded    = "ENDED"
)

type FlashSale struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	StartTime time.Time       `gorm:"not null;index" json:"startTime"`
	EndTime   time.Time       `gorm:"not null;index" json:"endTime"`
	IsActived bool            `gorm:"default:true" json:"isActived"`
	Items     []FlashSaleItem `gorm:"foreignKey:FlashSaleID" json:"items,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Status is derived from the campaign window on every read, never stored.
func (f *FlashSale) Status(now time.Time) string {
	switch {
	case now.Before(f.StartTime):
		return FlashSaleStatusUpcoming
	case now.After(f.EndTime):
		return FlashSaleStatusEnded
	default:
		return FlashSaleStatusOngoing
	}
}

type FlashSaleItem struct {
	FlashSaleID        uint            `gorm:"primaryKey" json:"flashSaleId"`
	ItemID             uint            `gorm:"primaryKey" json:"itemId"`
	FlashSale          FlashSale       `gorm:"foreignKey:FlashSaleID" json:"-"`
	Item               Item            `gorm:"foreignKey:ItemID" json:"-"`
	DiscountedPrice    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"discountedPrice"`
	DiscountPercentage int             `gorm:"not null;default:0" json:"discountPercentage"`
	Quantity           *int            `json:"quantity"`   // campaign cap, nil = unlimited
	Sold               int             `gorm:"not null;default:0" json:"sold"`
	OrderLimit         *int            `json:"orderLimit"` // per-user cap, nil = unlimited
	Slot               int             `gorm:"default:0" json:"slot"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
