package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string `gorm:"size:36;index" json:"userId"`
	User      User   `gorm:"foreignKey:UserID" json:"-"`
	Fullname  string `gorm:"size:100;not null" json:"fullname"`
	Phone     string `gorm:"size:20;not null" json:"phone"`
	Province  string `gorm:"size:100;not null" json:"province"`
	District  string `gorm:"size:100;not null" json:"district"`
	Commune   string `gorm:"size:100;not null" json:"commune"`
	Address   string `gorm:"size:255;not null" json:"address"`
	IsDefault bool   `gorm:"default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
