package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Username  string `gorm:"size:100;not null" json:"username"`
	Email     string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone     string `gorm:"size:20" json:"phone"`
	Password  string `gorm:"size:255;not null" json:"-"`
	Role      string `gorm:"size:20;default:'user'" json:"role"`
	IsActived bool   `gorm:"default:true" json:"isActived"`
	Addresses []Address
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
