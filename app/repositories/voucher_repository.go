package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"shop_backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoucherRepositoryImpl interface {
	GetByID(ctx context.Context, id uint) (*models.Voucher, error)
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Voucher, error)
	GetPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Voucher, int64, error)
	GetRecommended(ctx context.Context, userID string, now time.Time) ([]models.Voucher, error)
	Create(ctx context.Context, voucher *models.Voucher) error
	Update(ctx context.Context, voucher *models.Voucher) error
	Delete(ctx context.Context, id uint) error

	GetUserRedemptionCount(ctx context.Context, voucherID uint, userID string) (int, error)

	// IncrementUsedCount is a guarded update: it only fires while the global
	// cap has headroom and reports the affected row count.
	IncrementUsedCount(ctx context.Context, tx *gorm.DB, voucherID uint) (int64, error)

	// UpsertUserRedemption creates the per-user counter with quantity=1 or
	// increments it, returning the post-upsert quantity.
	UpsertUserRedemption(ctx context.Context, tx *gorm.DB, voucherID uint, userID string) (int, error)

	// ReverseRedemption returns exactly one use: the per-user quantity is
	// decremented and the row removed once it reaches zero. Reversing a
	// redemption that was never recorded is a no-op.
	ReverseRedemption(ctx context.Context, tx *gorm.DB, voucherID uint, userID string) error
}

type voucherRepository struct {
	db *gorm.DB
}

func NewVoucherRepository(db *gorm.DB) VoucherRepositoryImpl {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) GetByID(ctx context.Context, id uint) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).First(&voucher, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

// FindActiveByCode looks up a voucher whose code collides with a not-yet-ended
// voucher; used to keep codes unique while active.
func (r *voucherRepository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Where("voucher_code = ? AND end_time >= ?", code, now).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *voucherRepository) GetPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Voucher, int64, error) {
	var vouchers []models.Voucher
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Voucher{})
	if keyword != "" {
		searchKeyword := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(voucher_code) LIKE ? OR LOWER(name) LIKE ?", searchKeyword, searchKeyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&vouchers).Error

	return vouchers, total, err
}

// GetRecommended returns the vouchers a user can still redeem: window contains
// now, global headroom left, and the user below their personal cap.
func (r *voucherRepository) GetRecommended(ctx context.Context, userID string, now time.Time) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.* FROM vouchers v
		LEFT JOIN voucher_useds vu ON vu.voucher_id = v.id AND vu.user_id = ?
		WHERE v.start_time <= ? AND v.end_time >= ?
		AND v.max_count > v.used_count
		AND v.usage_limit_per_user > COALESCE(vu.quantity, 0)`,
		userID, now, now).
		Scan(&vouchers).Error
	return vouchers, err
}

func (r *voucherRepository) Create(ctx context.Context, voucher *models.Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *voucherRepository) Update(ctx context.Context, voucher *models.Voucher) error {
	voucher.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(voucher).Error
}

func (r *voucherRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Voucher{}, "id = ?", id).Error
}

func (r *voucherRepository) GetUserRedemptionCount(ctx context.Context, voucherID uint, userID string) (int, error) {
	var used models.VoucherUsed
	err := r.db.WithContext(ctx).
		Where("voucher_id = ? AND user_id = ?", voucherID, userID).
		First(&used).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return used.Quantity, nil
}

func (r *voucherRepository) IncrementUsedCount(ctx context.Context, tx *gorm.DB, voucherID uint) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND used_count < max_count", voucherID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	return res.RowsAffected, res.Error
}

func (r *voucherRepository) UpsertUserRedemption(ctx context.Context, tx *gorm.DB, voucherID uint, userID string) (int, error) {
	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "voucher_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("quantity + 1")}),
	}).Create(&models.VoucherUsed{
		VoucherID: voucherID,
		UserID:    userID,
		Quantity:  1,
	}).Error
	if err != nil {
		return 0, err
	}

	var used models.VoucherUsed
	err = tx.WithContext(ctx).
		Where("voucher_id = ? AND user_id = ?", voucherID, userID).
		First(&used).Error
	if err != nil {
		return 0, err
	}
	return used.Quantity, nil
}

func (r *voucherRepository) ReverseRedemption(ctx context.Context, tx *gorm.DB, voucherID uint, userID string) error {
	res := tx.WithContext(ctx).Model(&models.VoucherUsed{}).
		Where("voucher_id = ? AND user_id = ? AND quantity > 0", voucherID, userID).
		UpdateColumn("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Where("voucher_id = ? AND user_id = ? AND quantity <= 0", voucherID, userID).
		Delete(&models.VoucherUsed{}).Error
}
