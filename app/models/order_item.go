package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is immutable after creation; Price freezes the unit price the
// buyer paid (flash-sale or regular) and is never recomputed.
type OrderItem struct {
	ID       string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID  string          `gorm:"size:36;not null;index" json:"orderId"`
	Order    Order           `gorm:"foreignKey:OrderID" json:"-"`
	ItemID   uint            `gorm:"not null;index" json:"itemId"`
	Item     Item            `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}
