package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Transactor is the single transactional boundary handed to services.
// Every multi-statement mutation runs inside one Transact call; repositories
// receive the tx handle explicitly.
type Transactor interface {
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}
