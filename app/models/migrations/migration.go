package migrations

import (
	"shop_backend/app/models"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Item{},
		&models.FlashSale{},
		&models.FlashSaleItem{},
		&models.Voucher{},
		&models.VoucherUsed{},
		&models.OrderStatus{},
		&models.PaymentMethod{},
		&models.Order{},
		&models.OrderItem{},
	)
}
