package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"shop_backend/app/models"

	"gorm.io/gorm"
)

type ItemRepositoryImpl interface {
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	GetBySlug(ctx context.Context, slug string) (*models.Item, error)
	GetPaginated(ctx context.Context, limit, offset int) ([]models.Item, int64, error)
	SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Item, int64, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error

	// GetForOrder loads the item together with the flash-sale association
	// whose campaign window contains now, if any.
	GetForOrder(ctx context.Context, itemID uint, now time.Time) (*models.Item, error)

	// DecrementStock is a guarded update: it only fires when enough stock is
	// left and reports the affected row count. Must be called inside the
	// coordinator's transaction.
	DecrementStock(ctx context.Context, tx *gorm.DB, itemID uint, qty int) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepositoryImpl {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Categories").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Categories").First(&item, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.Item, int64, error) {
	var items []models.Item
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Item{}).Where("is_actived = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("is_actived = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *itemRepository) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Item, int64, error) {
	var items []models.Item
	var total int64
	searchKeyword := "%" + strings.ToLower(keyword) + "%"

	if err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("is_actived = ? AND LOWER(name) LIKE ?", true, searchKeyword).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("is_actived = ? AND LOWER(name) LIKE ?", true, searchKeyword).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error

	return items, total, err
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) GetForOrder(ctx context.Context, itemID uint, now time.Time) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var fsi models.FlashSaleItem
	err = r.db.WithContext(ctx).
		Joins("JOIN flash_sales ON flash_sales.id = flash_sale_items.flash_sale_id").
		Where("flash_sale_items.item_id = ?", itemID).
		Where("flash_sales.is_actived = ?", true).
		Where("flash_sales.start_time <= ? AND flash_sales.end_time >= ?", now, now).
		Preload("FlashSale").
		First(&fsi).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		item.ActiveFlashSale = &fsi
	}

	return &item, nil
}

func (r *itemRepository) DecrementStock(ctx context.Context, tx *gorm.DB, itemID uint, qty int) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND stock >= ?", itemID, qty).
		UpdateColumns(map[string]interface{}{
			"stock": gorm.Expr("stock - ?", qty),
			"sold":  gorm.Expr("sold + ?", qty),
		})
	return res.RowsAffected, res.Error
}
