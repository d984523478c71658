package models

// PaymentMethod is a reference table; orders only point at it, actual
// payment processing lives outside this system.
type PaymentMethod struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	IsActived bool   `gorm:"default:true" json:"isActived"`
}
