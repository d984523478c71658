package seeders

import (
	"log"
	"time"

	"shop_backend/app/db/fakers"
	"shop_backend/app/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var orderStatuses = []models.OrderStatus{
	{ID: models.OrderStatusPending, Name: "Pending"},
	{ID: models.OrderStatusConfirmed, Name: "Confirmed"},
	{ID: models.OrderStatusPreparing, Name: "Preparing"},
	{ID: models.OrderStatusShipping, Name: "Shipping"},
	{ID: models.OrderStatusDelivered, Name: "Delivered"},
	{ID: models.OrderStatusCancelled, Name: "Cancelled"},
	{ID: models.OrderStatusReturnedRefund, Name: "Returned/Refund"},
	{ID: models.OrderStatusFailed, Name: "Failed"},
}

var paymentMethods = []models.PaymentMethod{
	{Name: "COD", IsActived: true},
	{Name: "Bank Transfer", IsActived: true},
}

// DBSeed fills the reference tables and a starter data set: an admin
// account, a category with a few items, one upcoming flash sale and one
// ongoing voucher.
func DBSeed(db *gorm.DB) error {
	for _, status := range orderStatuses {
		if err := db.FirstOrCreate(&models.OrderStatus{}, status).Error; err != nil {
			return err
		}
	}

	for _, pm := range paymentMethods {
		if err := db.FirstOrCreate(&models.PaymentMethod{}, models.PaymentMethod{Name: pm.Name}).Error; err != nil {
			return err
		}
	}

	if err := seedAdmin(db); err != nil {
		return err
	}

	category := &models.Category{Name: "Electronics", Slug: slug.Make("Electronics")}
	if err := db.FirstOrCreate(category, "slug = ?", category.Slug).Error; err != nil {
		return err
	}

	var items []models.Item
	for i := 0; i < 5; i++ {
		item := fakers.ItemFaker(db, category)
		if err := db.Create(item).Error; err != nil {
			return err
		}
		items = append(items, *item)
	}

	if err := seedFlashSale(db, items); err != nil {
		return err
	}
	if err := seedVoucher(db); err != nil {
		return err
	}

	log.Println("✅ Seed complete")
	return nil
}

func seedAdmin(db *gorm.DB) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:        uuid.New().String(),
		Username:  "admin",
		Email:     "admin@shop.local",
		Password:  string(hashed),
		Role:      models.RoleAdmin,
		IsActived: true,
	}
	return db.FirstOrCreate(admin, "email = ?", admin.Email).Error
}

func seedFlashSale(db *gorm.DB, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	quantity := 20
	orderLimit := 2
	fs := &models.FlashSale{
		Name:      "Weekend Flash Sale",
		StartTime: time.Now().Add(24 * time.Hour),
		EndTime:   time.Now().Add(72 * time.Hour),
		IsActived: true,
	}
	for i, item := range items {
		if i >= 3 {
			break
		}
		fs.Items = append(fs.Items, models.FlashSaleItem{
			ItemID:             item.ID,
			DiscountedPrice:    item.Price.Mul(decimal.NewFromFloat(0.8)),
			DiscountPercentage: 20,
			Quantity:           &quantity,
			OrderLimit:         &orderLimit,
			Slot:               i,
		})
	}
	return db.Create(fs).Error
}

func seedVoucher(db *gorm.DB) error {
	pct := 10
	cap := decimal.NewFromInt(50000)
	voucher := &models.Voucher{
		Name:               "Welcome 10%",
		VoucherCode:        "WELCOME10",
		MinSpend:           decimal.NewFromInt(100000),
		DiscountCap:        &cap,
		DiscountPercentage: &pct,
		UsageLimitPerUser:  1,
		MaxCount:           100,
		StartTime:          time.Now(),
		EndTime:            time.Now().Add(30 * 24 * time.Hour),
	}
	return db.FirstOrCreate(voucher, "voucher_code = ?", voucher.VoucherCode).Error
}
