package services

import (
	"context"
	"fmt"

	"shop_backend/app/repositories"
	"shop_backend/app/utils/calc"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// CartLine is one requested line of a cart.
type CartLine struct {
	ItemID   uint
	Quantity int
}

// QuoteLine carries the frozen unit price for one line. FlashSaleID is set
// whenever the item sits in an ongoing campaign, even when the line was
// priced regularly because the buyer exceeded the order limit: the campaign
// sold counter still moves for such lines.
type QuoteLine struct {
	ItemID      uint
	ItemName    string
	Quantity    int
	UnitPrice   decimal.Decimal
	FlashSaleID uint
}

type Quote struct {
	Lines           []QuoteLine
	Subtotal        decimal.Decimal
	VoucherDiscount decimal.Decimal
	Total           decimal.Decimal
	VoucherID       uint
	VoucherApplied  bool
}

// PricingService prices a cart without side effects, so it can serve order
// previews outside any transaction. The coordinator re-validates stock and
// counters with guarded updates inside the transaction; this pass decides
// prices and fails fast on violations visible at read time.
type PricingService struct {
	itemRepo    repositories.ItemRepositoryImpl
	voucherRepo repositories.VoucherRepositoryImpl
	orderRepo   repositories.OrderRepository
	clock       clockwork.Clock
}

func NewPricingService(
	itemRepo repositories.ItemRepositoryImpl,
	voucherRepo repositories.VoucherRepositoryImpl,
	orderRepo repositories.OrderRepository,
	clock clockwork.Clock,
) *PricingService {
	return &PricingService{
		itemRepo:    itemRepo,
		voucherRepo: voucherRepo,
		orderRepo:   orderRepo,
		clock:       clock,
	}
}

func (s *PricingService) PriceCart(ctx context.Context, userID string, lines []CartLine, voucherID *uint) (*Quote, error) {
	now := s.clock.Now()
	quote := &Quote{
		Subtotal:        decimal.Zero,
		VoucherDiscount: decimal.Zero,
	}

	for _, line := range lines {
		item, err := s.itemRepo.GetForOrder(ctx, line.ItemID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to get item %d: %w", line.ItemID, err)
		}
		if item == nil {
			return nil, ErrItemNotFound
		}
		if !item.IsActived {
			return nil, fmt.Errorf("%w: %s", ErrItemInactive, item.Name)
		}
		if item.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, item.Name)
		}

		unitPrice := item.Price
		var flashSaleID uint

		if fs := item.ActiveFlashSale; fs != nil {
			flashSaleID = fs.FlashSaleID

			if fs.Quantity != nil && fs.Sold+line.Quantity > *fs.Quantity {
				return nil, fmt.Errorf("%w: %s", ErrFlashSaleSoldOut, item.Name)
			}

			limited := false
			if fs.OrderLimit != nil {
				alreadyOrdered, err := s.orderRepo.SumUserItemQuantityBetween(
					ctx, userID, item.ID, fs.FlashSale.StartTime, fs.FlashSale.EndTime)
				if err != nil {
					return nil, fmt.Errorf("failed to sum ordered quantity for item %d: %w", item.ID, err)
				}
				// Exceeding the per-user limit is not an error: the line just
				// reverts to the regular price.
				if alreadyOrdered+line.Quantity > *fs.OrderLimit {
					limited = true
				}
			}

			if !limited {
				unitPrice = fs.DiscountedPrice
			}
		}

		quote.Lines = append(quote.Lines, QuoteLine{
			ItemID:      item.ID,
			ItemName:    item.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			FlashSaleID: flashSaleID,
		})
		quote.Subtotal = quote.Subtotal.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	if voucherID != nil {
		voucher, err := s.voucherRepo.GetByID(ctx, *voucherID)
		if err != nil {
			return nil, fmt.Errorf("failed to get voucher %d: %w", *voucherID, err)
		}
		if voucher == nil {
			return nil, ErrVoucherNotFound
		}
		if voucher.EndTime.Before(now) {
			return nil, ErrVoucherExpired
		}
		if voucher.UsedCount >= voucher.MaxCount {
			return nil, ErrVoucherExhausted
		}

		// Below the minimum spend the voucher is silently skipped and no
		// redemption is recorded.
		if quote.Subtotal.GreaterThanOrEqual(voucher.MinSpend) {
			quote.VoucherDiscount = calc.VoucherDiscount(
				quote.Subtotal, voucher.DiscountPercentage, voucher.DiscountCap, voucher.DiscountValue)
			quote.VoucherID = voucher.ID
			quote.VoucherApplied = true
		}
	}

	quote.Total = calc.OrderTotal(quote.Subtotal, quote.VoucherDiscount)
	return quote, nil
}
