package repositories

import (
	"context"
	"errors"
	"time"

	"shop_backend/app/models"

	"gorm.io/gorm"
)

type FlashSaleRepositoryImpl interface {
	GetByID(ctx context.Context, id uint) (*models.FlashSale, error)
	GetByIDWithItems(ctx context.Context, id uint) (*models.FlashSale, error)
	GetPaginated(ctx context.Context, status string, now time.Time, limit, offset int) ([]models.FlashSale, int64, error)
	Create(ctx context.Context, flashSale *models.FlashSale) error
	Update(ctx context.Context, flashSale *models.FlashSale) error
	Delete(ctx context.Context, id uint) error
	ReplaceItems(ctx context.Context, flashSaleID uint, items []models.FlashSaleItem) error

	// IncrementSold is a guarded update honoring the nullable campaign cap;
	// reports the affected row count. Must be called inside the coordinator's
	// transaction.
	IncrementSold(ctx context.Context, tx *gorm.DB, flashSaleID, itemID uint, qty int) (int64, error)
}

type flashSaleRepository struct {
	db *gorm.DB
}

func NewFlashSaleRepository(db *gorm.DB) FlashSaleRepositoryImpl {
	return &flashSaleRepository{db: db}
}

func (r *flashSaleRepository) GetByID(ctx context.Context, id uint) (*models.FlashSale, error) {
	var fs models.FlashSale
	err := r.db.WithContext(ctx).First(&fs, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fs, nil
}

func (r *flashSaleRepository) GetByIDWithItems(ctx context.Context, id uint) (*models.FlashSale, error) {
	var fs models.FlashSale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("flash_sale_items.slot ASC")
		}).
		Preload("Items.Item").
		First(&fs, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fs, nil
}

// GetPaginated filters by the derived campaign status; status is computed
// against the window columns at query time, not read from a stored column.
func (r *flashSaleRepository) GetPaginated(ctx context.Context, status string, now time.Time, limit, offset int) ([]models.FlashSale, int64, error) {
	var flashSales []models.FlashSale
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FlashSale{}).Where("is_actived = ?", true)
	switch status {
	case models.FlashSaleStatusUpcoming:
		query = query.Where("start_time > ?", now)
	case models.FlashSaleStatusOngoing:
		query = query.Where("start_time <= ? AND end_time >= ?", now, now)
	case models.FlashSaleStatusEnded:
		query = query.Where("end_time < ?", now)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&flashSales).Error

	return flashSales, total, err
}

func (r *flashSaleRepository) Create(ctx context.Context, flashSale *models.FlashSale) error {
	return r.db.WithContext(ctx).Create(flashSale).Error
}

func (r *flashSaleRepository) Update(ctx context.Context, flashSale *models.FlashSale) error {
	flashSale.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(flashSale).Error
}

func (r *flashSaleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flash_sale_id = ?", id).Delete(&models.FlashSaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FlashSale{}, "id = ?", id).Error
	})
}

func (r *flashSaleRepository) ReplaceItems(ctx context.Context, flashSaleID uint, items []models.FlashSaleItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flash_sale_id = ?", flashSaleID).Delete(&models.FlashSaleItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].FlashSaleID = flashSaleID
		}
		return tx.Create(&items).Error
	})
}

func (r *flashSaleRepository) IncrementSold(ctx context.Context, tx *gorm.DB, flashSaleID, itemID uint, qty int) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.FlashSaleItem{}).
		Where("flash_sale_id = ? AND item_id = ?", flashSaleID, itemID).
		Where("quantity IS NULL OR sold + ? <= quantity", qty).
		UpdateColumn("sold", gorm.Expr("sold + ?", qty))
	return res.RowsAffected, res.Error
}
