package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending        = 1
	OrderStatusConfirmed      = 2
	OrderStatusPreparing      = 3
	OrderStatusShipping       = 4
	OrderStatusDelivered      = 5
	OrderStatusCancelled      = 6
	OrderStatusReturnedRefund = 7
	OrderStatusFailed         = 8
)

// CancellableOrderStatuses lists the states a user may cancel from.
var CancellableOrderStatuses = []int{OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing}

func OrderStatusIsCancellable(statusID int) bool {
	for _, s := range CancellableOrderStatuses {
		if s == statusID {
			return true
		}
	}
	return false
}

func OrderStatusIsRefundable(statusID int) bool {
	return statusID == OrderStatusDelivered
}

func OrderStatusIsTerminal(statusID int) bool {
	return statusID == OrderStatusCancelled || statusID == OrderStatusReturnedRefund || statusID == OrderStatusFailed
}

// OrderStatus is the reference table backing the status ids above.
type OrderStatus struct {
	ID   int    `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex" json:"name"`
}

type Order struct {
	ID     string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID string `gorm:"size:36;index" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// Recipient fields are a snapshot of the delivery address at order time;
	// the live Address record is never referenced.
	RecipientName    string `gorm:"size:100;not null" json:"recipientName"`
	RecipientPhone   string `gorm:"size:20;not null" json:"recipientPhone"`
	RecipientAddress string `gorm:"size:500;not null" json:"recipientAddress"`

	Note            string          `gorm:"type:text" json:"note"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"totalPrice"`
	VoucherPrice    decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"voucherPrice"`
	OrderStatusID   int             `gorm:"not null;default:1;index" json:"orderStatusId"`
	OrderStatus     OrderStatus     `gorm:"foreignKey:OrderStatusID" json:"orderStatus,omitempty"`
	PaymentMethodID uint            `gorm:"not null" json:"paymentMethodId"`
	PaymentMethod   PaymentMethod   `gorm:"foreignKey:PaymentMethodID" json:"paymentMethod,omitempty"`
	VoucherID       *uint           `gorm:"index" json:"voucherId"`
	Voucher         *Voucher        `gorm:"foreignKey:VoucherID" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
