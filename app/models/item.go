package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Slug        string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Thumbnail   string          `gorm:"size:255" json:"thumbnail"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	ImportPrice decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"-"`
	Stock       int             `gorm:"not null" json:"stock"`
	Sold        int             `gorm:"not null;default:0" json:"sold"`
	IsActived   bool            `gorm:"default:true" json:"isActived"`
	Categories  []Category      `gorm:"many2many:item_categories;" json:"categories,omitempty"`
	FlashSales  []FlashSaleItem `gorm:"foreignKey:ItemID" json:"-"`

	// ActiveFlashSale holds the association whose campaign window contains
	// "now"; populated by the repository, never persisted.
	ActiveFlashSale *FlashSaleItem `gorm:"-" json:"flashSale,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
