package services

import (
	"context"
	"fmt"
	"log"

	"shop_backend/app/models"
	"shop_backend/app/repositories"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// RecipientInput is the delivery address snapshot sent with the order; the
// user's saved Address rows are never referenced by the persisted order.
type RecipientInput struct {
	Fullname string
	Phone    string
	Province string
	District string
	Commune  string
	Address  string
}

type CreateOrderInput struct {
	Items           []CartLine
	VoucherID       *uint
	PaymentMethodID uint
	Note            string
	Recipient       RecipientInput
}

// OrderService coordinates order creation and the order lifecycle. Every
// multi-statement mutation runs inside one transaction: the order and its
// lines, the voucher counters, and the stock/sold decrements commit together
// or not at all.
type OrderService struct {
	transactor    repositories.Transactor
	itemRepo      repositories.ItemRepositoryImpl
	flashSaleRepo repositories.FlashSaleRepositoryImpl
	voucherRepo   repositories.VoucherRepositoryImpl
	orderRepo     repositories.OrderRepository
	userRepo      repositories.UserRepositoryImpl
	pricing       *PricingService
	mailer        *Mailer
	clock         clockwork.Clock
}

func NewOrderService(
	transactor repositories.Transactor,
	itemRepo repositories.ItemRepositoryImpl,
	flashSaleRepo repositories.FlashSaleRepositoryImpl,
	voucherRepo repositories.VoucherRepositoryImpl,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepositoryImpl,
	pricing *PricingService,
	mailer *Mailer,
	clock clockwork.Clock,
) *OrderService {
	return &OrderService{
		transactor:    transactor,
		itemRepo:      itemRepo,
		flashSaleRepo: flashSaleRepo,
		voucherRepo:   voucherRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		pricing:       pricing,
		mailer:        mailer,
		clock:         clock,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*models.Order, error) {
	quote, err := s.pricing.PriceCart(ctx, userID, input.Items, input.VoucherID)
	if err != nil {
		return nil, err
	}

	var appliedVoucher *models.Voucher
	if quote.VoucherApplied {
		appliedVoucher, err = s.voucherRepo.GetByID(ctx, quote.VoucherID)
		if err != nil {
			return nil, fmt.Errorf("failed to get voucher %d: %w", quote.VoucherID, err)
		}
		if appliedVoucher == nil {
			return nil, ErrVoucherNotFound
		}
	}

	order := &models.Order{
		UserID:           userID,
		RecipientName:    input.Recipient.Fullname,
		RecipientPhone:   input.Recipient.Phone,
		RecipientAddress: joinAddress(input.Recipient),
		Note:             input.Note,
		TotalPrice:       quote.Total,
		VoucherPrice:     quote.VoucherDiscount,
		OrderStatusID:    models.OrderStatusPending,
		PaymentMethodID:  input.PaymentMethodID,
	}
	if quote.VoucherApplied {
		voucherID := quote.VoucherID
		order.VoucherID = &voucherID
	}
	for _, line := range quote.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		})
	}

	err = s.transactor.Transact(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if quote.VoucherApplied {
			// The guarded increment is the authoritative global-cap check
			// under concurrent redemption of the last use.
			rows, err := s.voucherRepo.IncrementUsedCount(ctx, tx, quote.VoucherID)
			if err != nil {
				return fmt.Errorf("failed to increment voucher usage: %w", err)
			}
			if rows == 0 {
				return ErrVoucherExhausted
			}

			userQty, err := s.voucherRepo.UpsertUserRedemption(ctx, tx, quote.VoucherID, userID)
			if err != nil {
				return fmt.Errorf("failed to record voucher redemption: %w", err)
			}
			if userQty > appliedVoucher.UsageLimitPerUser {
				return ErrVoucherUserLimit
			}
		}

		for _, line := range quote.Lines {
			rows, err := s.itemRepo.DecrementStock(ctx, tx, line.ItemID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock for item %d: %w", line.ItemID, err)
			}
			if rows == 0 {
				return fmt.Errorf("%w: %s", ErrOutOfStock, line.ItemName)
			}

			if line.FlashSaleID != 0 {
				rows, err := s.flashSaleRepo.IncrementSold(ctx, tx, line.FlashSaleID, line.ItemID, line.Quantity)
				if err != nil {
					return fmt.Errorf("failed to increment sold for item %d: %w", line.ItemID, err)
				}
				if rows == 0 {
					return fmt.Errorf("%w: %s", ErrFlashSaleSoldOut, line.ItemName)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendOrderConfirmation(ctx, userID, order)

	return order, nil
}

func joinAddress(r RecipientInput) string {
	return r.Address + ", " + r.Commune + ", " + r.District + ", " + r.Province
}

// sendOrderConfirmation is fire-and-forget: mail must never block or fail a
// committed order.
func (s *OrderService) sendOrderConfirmation(ctx context.Context, userID string, order *models.Order) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		log.Printf("order %s: skipping confirmation mail, user lookup failed: %v", order.ID, err)
		return
	}
	go func() {
		if err := s.mailer.SendOrderConfirmation(user.Email, order); err != nil {
			log.Printf("order %s: failed to send confirmation mail: %v", order.ID, err)
		}
	}()
}

func (s *OrderService) GetOrderDetail(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetDetailByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string, statusID, limit, offset int) ([]models.Order, int64, error) {
	return s.orderRepo.FindByUserID(ctx, userID, statusID, limit, offset)
}

func (s *OrderService) ListOrders(ctx context.Context, filter repositories.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.FindAll(ctx, filter)
}

// CancelOrder transitions the order to CANCELLED and returns one voucher use
// when the order consumed one. Inventory is deliberately not restored.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil || order.UserID != userID {
		return ErrOrderNotFound
	}
	if !models.OrderStatusIsCancellable(order.OrderStatusID) {
		return ErrOrderNotCancellable
	}

	return s.transactor.Transact(ctx, func(tx *gorm.DB) error {
		rows, err := s.orderRepo.UpdateStatusWhere(ctx, tx, orderID, models.OrderStatusCancelled, models.CancellableOrderStatuses)
		if err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", orderID, err)
		}
		if rows == 0 {
			return ErrOrderNotCancellable
		}

		if order.VoucherID != nil {
			if err := s.voucherRepo.ReverseRedemption(ctx, tx, *order.VoucherID, order.UserID); err != nil {
				return fmt.Errorf("failed to reverse voucher redemption: %w", err)
			}
		}
		return nil
	})
}

func (s *OrderService) RefundOrder(ctx context.Context, userID, orderID string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil || order.UserID != userID {
		return ErrOrderNotFound
	}
	if !models.OrderStatusIsRefundable(order.OrderStatusID) {
		return ErrOrderNotRefundable
	}

	return s.transactor.Transact(ctx, func(tx *gorm.DB) error {
		rows, err := s.orderRepo.UpdateStatusWhere(ctx, tx, orderID, models.OrderStatusReturnedRefund, []int{models.OrderStatusDelivered})
		if err != nil {
			return fmt.Errorf("failed to refund order %s: %w", orderID, err)
		}
		if rows == 0 {
			return ErrOrderNotRefundable
		}
		return nil
	})
}

// UpdateOrderStatus is the admin transition: unconditional, but moving to
// CANCELLED still returns the buyer's voucher use.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, statusID int) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order == nil {
		return ErrOrderNotFound
	}

	return s.transactor.Transact(ctx, func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, statusID); err != nil {
			return fmt.Errorf("failed to update order %s status: %w", orderID, err)
		}

		if statusID == models.OrderStatusCancelled && order.VoucherID != nil {
			if err := s.voucherRepo.ReverseRedemption(ctx, tx, *order.VoucherID, order.UserID); err != nil {
				return fmt.Errorf("failed to reverse voucher redemption: %w", err)
			}
		}
		return nil
	})
}
