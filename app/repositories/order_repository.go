package repositories

import (
	"context"
	"errors"
	"time"

	"shop_backend/app/models"

	"gorm.io/gorm"
)

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	StatusID  int
	VoucherID uint
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetDetailByID(ctx context.Context, id string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string, statusID, limit, offset int) ([]models.Order, int64, error)
	FindAll(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error)

	// SumUserItemQuantityBetween totals the units of one item this user
	// ordered inside a campaign window; feeds the per-user order limit check.
	SumUserItemQuantityBetween(ctx context.Context, userID string, itemID uint, start, end time.Time) (int, error)

	// UpdateStatusWhere transitions the order only while its current status
	// is in allowed, reporting the affected row count.
	UpdateStatusWhere(ctx context.Context, tx *gorm.DB, orderID string, statusID int, allowed []int) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, statusID int) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetDetailByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Item").
		Preload("OrderStatus").
		Preload("PaymentMethod").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string, statusID, limit, offset int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if statusID != 0 {
		query = query.Where("order_status_id = ?", statusID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Items.Item").
		Preload("OrderStatus").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error

	return orders, total, err
}

func (r *gormOrderRepository) FindAll(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.StatusID != 0 {
		query = query.Where("order_status_id = ?", filter.StatusID)
	}
	if filter.VoucherID != 0 {
		query = query.Where("voucher_id = ?", filter.VoucherID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Items.Item").
		Preload("OrderStatus").
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error

	return orders, total, err
}

func (r *gormOrderRepository) SumUserItemQuantityBetween(ctx context.Context, userID string, itemID uint, start, end time.Time) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.item_id = ?", itemID).
		Where("orders.user_id = ?", userID).
		Where("orders.created_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *gormOrderRepository) UpdateStatusWhere(ctx context.Context, tx *gorm.DB, orderID string, statusID int, allowed []int) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status_id IN ?", orderID, allowed).
		Update("order_status_id", statusID)
	return res.RowsAffected, res.Error
}

func (r *gormOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, statusID int) error {
	return tx.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("order_status_id", statusID).Error
}
