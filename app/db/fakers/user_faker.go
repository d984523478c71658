package fakers

import (
	"log"

	"shop_backend/app/models"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func UserFaker(db *gorm.DB) *models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash faker password:", err)
	}

	return &models.User{
		ID:        uuid.New().String(),
		Username:  faker.Username(),
		Email:     faker.Email(),
		Phone:     faker.Phonenumber(),
		Password:  string(hashed),
		Role:      models.RoleUser,
		IsActived: true,
	}
}
