package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop_backend/app/models"
	"shop_backend/app/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The fakes below are in-memory stand-ins for the gorm repositories. They
// implement the guarded updates with the same rows-affected contract, but do
// not simulate rollback: tests assert on returned errors and recorded calls.

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

type stockCall struct {
	ItemID uint
	Qty    int
}

type fakeItemRepo struct {
	items       map[uint]*models.Item
	activeSales map[uint]*models.FlashSaleItem
	stockCalls  []stockCall
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		items:       map[uint]*models.Item{},
		activeSales: map[uint]*models.FlashSaleItem{},
	}
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id uint) (*models.Item, error) {
	if item, ok := f.items[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeItemRepo) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	for _, item := range f.items {
		if item.Slug == slug {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) GetPaginated(ctx context.Context, limit, offset int) ([]models.Item, int64, error) {
	var out []models.Item
	for _, item := range f.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (f *fakeItemRepo) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Item, int64, error) {
	var out []models.Item
	for _, item := range f.items {
		if strings.Contains(strings.ToLower(item.Name), strings.ToLower(keyword)) {
			out = append(out, *item)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *models.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) GetForOrder(ctx context.Context, itemID uint, now time.Time) (*models.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, nil
	}
	cp := *item
	if fs, ok := f.activeSales[itemID]; ok {
		fsCopy := *fs
		cp.ActiveFlashSale = &fsCopy
	}
	return &cp, nil
}

func (f *fakeItemRepo) DecrementStock(ctx context.Context, tx *gorm.DB, itemID uint, qty int) (int64, error) {
	item, ok := f.items[itemID]
	if !ok || item.Stock < qty {
		return 0, nil
	}
	item.Stock -= qty
	item.Sold += qty
	f.stockCalls = append(f.stockCalls, stockCall{ItemID: itemID, Qty: qty})
	return 1, nil
}

type redemptionKey struct {
	VoucherID uint
	UserID    string
}

type fakeVoucherRepo struct {
	vouchers     map[uint]*models.Voucher
	redemptions  map[redemptionKey]int
	reverseCalls []redemptionKey
}

func newFakeVoucherRepo() *fakeVoucherRepo {
	return &fakeVoucherRepo{
		vouchers:    map[uint]*models.Voucher{},
		redemptions: map[redemptionKey]int{},
	}
}

func (f *fakeVoucherRepo) GetByID(ctx context.Context, id uint) (*models.Voucher, error) {
	if v, ok := f.vouchers[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeVoucherRepo) FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Voucher, error) {
	for _, v := range f.vouchers {
		if v.VoucherCode == code && !v.EndTime.Before(now) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVoucherRepo) GetPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Voucher, int64, error) {
	var out []models.Voucher
	for _, v := range f.vouchers {
		if keyword == "" || strings.Contains(strings.ToLower(v.Name), strings.ToLower(keyword)) {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeVoucherRepo) GetRecommended(ctx context.Context, userID string, now time.Time) ([]models.Voucher, error) {
	var out []models.Voucher
	for _, v := range f.vouchers {
		if v.Status(now) != models.VoucherStatusOngoing {
			continue
		}
		if v.UsedCount >= v.MaxCount {
			continue
		}
		if f.redemptions[redemptionKey{v.ID, userID}] >= v.UsageLimitPerUser {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVoucherRepo) Create(ctx context.Context, voucher *models.Voucher) error {
	if voucher.ID == 0 {
		voucher.ID = uint(len(f.vouchers) + 1)
	}
	f.vouchers[voucher.ID] = voucher
	return nil
}

func (f *fakeVoucherRepo) Update(ctx context.Context, voucher *models.Voucher) error {
	f.vouchers[voucher.ID] = voucher
	return nil
}

func (f *fakeVoucherRepo) Delete(ctx context.Context, id uint) error {
	delete(f.vouchers, id)
	return nil
}

func (f *fakeVoucherRepo) GetUserRedemptionCount(ctx context.Context, voucherID uint, userID string) (int, error) {
	return f.redemptions[redemptionKey{voucherID, userID}], nil
}

func (f *fakeVoucherRepo) IncrementUsedCount(ctx context.Context, tx *gorm.DB, voucherID uint) (int64, error) {
	v, ok := f.vouchers[voucherID]
	if !ok || v.UsedCount >= v.MaxCount {
		return 0, nil
	}
	v.UsedCount++
	return 1, nil
}

func (f *fakeVoucherRepo) UpsertUserRedemption(ctx context.Context, tx *gorm.DB, voucherID uint, userID string) (int, error) {
	key := redemptionKey{voucherID, userID}
	f.redemptions[key]++
	return f.redemptions[key], nil
}

func (f *fakeVoucherRepo) ReverseRedemption(ctx context.Context, tx *gorm.DB, voucherID uint, userID string) error {
	key := redemptionKey{voucherID, userID}
	f.reverseCalls = append(f.reverseCalls, key)
	if qty, ok := f.redemptions[key]; ok {
		if qty <= 1 {
			delete(f.redemptions, key)
		} else {
			f.redemptions[key] = qty - 1
		}
	}
	return nil
}

type soldKey struct {
	FlashSaleID uint
	ItemID      uint
}

type fakeFlashSaleRepo struct {
	sales     map[uint]*models.FlashSale
	saleItems map[soldKey]*models.FlashSaleItem
	soldCalls []soldKey
}

func newFakeFlashSaleRepo() *fakeFlashSaleRepo {
	return &fakeFlashSaleRepo{
		sales:     map[uint]*models.FlashSale{},
		saleItems: map[soldKey]*models.FlashSaleItem{},
	}
}

func (f *fakeFlashSaleRepo) GetByID(ctx context.Context, id uint) (*models.FlashSale, error) {
	if fs, ok := f.sales[id]; ok {
		cp := *fs
		cp.Items = nil
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeFlashSaleRepo) GetByIDWithItems(ctx context.Context, id uint) (*models.FlashSale, error) {
	if fs, ok := f.sales[id]; ok {
		cp := *fs
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeFlashSaleRepo) GetPaginated(ctx context.Context, status string, now time.Time, limit, offset int) ([]models.FlashSale, int64, error) {
	var out []models.FlashSale
	for _, fs := range f.sales {
		if status == "" || fs.Status(now) == status {
			out = append(out, *fs)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeFlashSaleRepo) Create(ctx context.Context, flashSale *models.FlashSale) error {
	if flashSale.ID == 0 {
		flashSale.ID = uint(len(f.sales) + 1)
	}
	f.sales[flashSale.ID] = flashSale
	for i := range flashSale.Items {
		item := flashSale.Items[i]
		item.FlashSaleID = flashSale.ID
		f.saleItems[soldKey{flashSale.ID, item.ItemID}] = &item
	}
	return nil
}

func (f *fakeFlashSaleRepo) Update(ctx context.Context, flashSale *models.FlashSale) error {
	f.sales[flashSale.ID] = flashSale
	return nil
}

func (f *fakeFlashSaleRepo) Delete(ctx context.Context, id uint) error {
	delete(f.sales, id)
	return nil
}

func (f *fakeFlashSaleRepo) ReplaceItems(ctx context.Context, flashSaleID uint, items []models.FlashSaleItem) error {
	for key := range f.saleItems {
		if key.FlashSaleID == flashSaleID {
			delete(f.saleItems, key)
		}
	}
	for i := range items {
		item := items[i]
		item.FlashSaleID = flashSaleID
		f.saleItems[soldKey{flashSaleID, item.ItemID}] = &item
	}
	return nil
}

func (f *fakeFlashSaleRepo) IncrementSold(ctx context.Context, tx *gorm.DB, flashSaleID, itemID uint, qty int) (int64, error) {
	key := soldKey{flashSaleID, itemID}
	item, ok := f.saleItems[key]
	if !ok {
		return 0, nil
	}
	if item.Quantity != nil && item.Sold+qty > *item.Quantity {
		return 0, nil
	}
	item.Sold += qty
	f.soldCalls = append(f.soldCalls, key)
	return 1, nil
}

type sumKey struct {
	UserID string
	ItemID uint
}

type fakeOrderRepo struct {
	orders       map[string]*models.Order
	orderedUnits map[sumKey]int
	created      []*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:       map[string]*models.Order{},
		orderedUnits: map[sumKey]int{},
	}
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	f.orders[order.ID] = order
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetDetailByID(ctx context.Context, id string) (*models.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) FindByUserID(ctx context.Context, userID string, statusID, limit, offset int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID != userID {
			continue
		}
		if statusID != 0 && o.OrderStatusID != statusID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) FindAll(ctx context.Context, filter repositories.OrderListFilter) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range f.orders {
		if filter.StatusID != 0 && o.OrderStatusID != filter.StatusID {
			continue
		}
		if filter.VoucherID != 0 && (o.VoucherID == nil || *o.VoucherID != filter.VoucherID) {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) SumUserItemQuantityBetween(ctx context.Context, userID string, itemID uint, start, end time.Time) (int, error) {
	return f.orderedUnits[sumKey{userID, itemID}], nil
}

func (f *fakeOrderRepo) UpdateStatusWhere(ctx context.Context, tx *gorm.DB, orderID string, statusID int, allowed []int) (int64, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return 0, nil
	}
	for _, s := range allowed {
		if o.OrderStatusID == s {
			o.OrderStatusID = statusID
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, statusID int) error {
	o, ok := f.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s not found", orderID)
	}
	o.OrderStatusID = statusID
	return nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}
