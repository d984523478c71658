package fakers

import (
	"math/rand"

	"shop_backend/app/models"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ItemFaker(db *gorm.DB, category *models.Category) *models.Item {
	name := faker.Word() + " " + faker.Word()
	price := decimal.NewFromInt(int64(rand.Intn(900)+100) * 1000)

	return &models.Item{
		Name:        name,
		Slug:        slug.Make(name + "-" + uuid.NewString()[:6]),
		Thumbnail:   "/images/items/placeholder.jpg",
		Description: faker.Paragraph(),
		Price:       price,
		ImportPrice: price.Mul(decimal.NewFromFloat(0.7)),
		Stock:       rand.Intn(50) + 10,
		IsActived:   true,
		Categories:  []models.Category{*category},
	}
}
