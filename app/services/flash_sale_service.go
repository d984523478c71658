package services

import (
	"context"
	"fmt"
	"time"

	"shop_backend/app/models"
	"shop_backend/app/repositories"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

type FlashSaleItemInput struct {
	ItemID             uint
	DiscountedPrice    decimal.Decimal
	DiscountPercentage int
	Quantity           *int
	OrderLimit         *int
	Slot               int
}

type FlashSaleInput struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Items     []FlashSaleItemInput
}

type FlashSaleService struct {
	flashSaleRepo repositories.FlashSaleRepositoryImpl
	itemRepo      repositories.ItemRepositoryImpl
	clock         clockwork.Clock
}

func NewFlashSaleService(
	flashSaleRepo repositories.FlashSaleRepositoryImpl,
	itemRepo repositories.ItemRepositoryImpl,
	clock clockwork.Clock,
) *FlashSaleService {
	return &FlashSaleService{flashSaleRepo: flashSaleRepo, itemRepo: itemRepo, clock: clock}
}

func (s *FlashSaleService) List(ctx context.Context, status string, limit, offset int) ([]models.FlashSale, int64, error) {
	return s.flashSaleRepo.GetPaginated(ctx, status, s.clock.Now(), limit, offset)
}

// GetItems lists a campaign's items; only upcoming and ongoing campaigns are
// browsable.
func (s *FlashSaleService) GetItems(ctx context.Context, flashSaleID uint) (*models.FlashSale, error) {
	fs, err := s.flashSaleRepo.GetByIDWithItems(ctx, flashSaleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get flash sale %d: %w", flashSaleID, err)
	}
	if fs == nil {
		return nil, ErrFlashSaleNotFound
	}
	if fs.Status(s.clock.Now()) == models.FlashSaleStatusEnded {
		return nil, ErrFlashSaleNotFound
	}
	return fs, nil
}

func (s *FlashSaleService) Create(ctx context.Context, input FlashSaleInput) (*models.FlashSale, error) {
	now := s.clock.Now()
	if !input.StartTime.Before(input.EndTime) || input.StartTime.Before(now) {
		return nil, ErrInvalidSaleWindow
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	fs := &models.FlashSale{
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		IsActived: true,
		Items:     items,
	}
	if err := s.flashSaleRepo.Create(ctx, fs); err != nil {
		return nil, fmt.Errorf("failed to create flash sale: %w", err)
	}
	return fs, nil
}

// Update is window-gated like vouchers: UPCOMING campaigns may change
// everything, ONGOING ones only name and end time, ENDED ones nothing.
func (s *FlashSaleService) Update(ctx context.Context, id uint, input FlashSaleInput) error {
	fs, err := s.flashSaleRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get flash sale %d: %w", id, err)
	}
	if fs == nil {
		return ErrFlashSaleNotFound
	}

	now := s.clock.Now()
	switch fs.Status(now) {
	case models.FlashSaleStatusEnded:
		return ErrFlashSaleEnded
	case models.FlashSaleStatusUpcoming:
		if !input.StartTime.Before(input.EndTime) {
			return ErrInvalidSaleWindow
		}
		fs.Name = input.Name
		fs.StartTime = input.StartTime
		fs.EndTime = input.EndTime

		items, err := s.buildItems(ctx, input.Items)
		if err != nil {
			return err
		}
		if err := s.flashSaleRepo.ReplaceItems(ctx, id, items); err != nil {
			return fmt.Errorf("failed to replace flash sale items: %w", err)
		}
	default:
		if input.EndTime.Before(now) {
			return ErrInvalidSaleWindow
		}
		fs.Name = input.Name
		fs.EndTime = input.EndTime
	}

	fs.Items = nil
	return s.flashSaleRepo.Update(ctx, fs)
}

// Delete only removes campaigns that have not started yet.
func (s *FlashSaleService) Delete(ctx context.Context, id uint) error {
	fs, err := s.flashSaleRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get flash sale %d: %w", id, err)
	}
	if fs == nil {
		return ErrFlashSaleNotFound
	}
	if fs.Status(s.clock.Now()) != models.FlashSaleStatusUpcoming {
		return ErrFlashSaleNotUpcoming
	}
	return s.flashSaleRepo.Delete(ctx, id)
}

// buildItems validates every attached item and requires the campaign price
// to undercut the regular price.
func (s *FlashSaleService) buildItems(ctx context.Context, inputs []FlashSaleItemInput) ([]models.FlashSaleItem, error) {
	var items []models.FlashSaleItem
	for _, in := range inputs {
		item, err := s.itemRepo.GetByID(ctx, in.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get item %d: %w", in.ItemID, err)
		}
		if item == nil {
			return nil, ErrItemNotFound
		}
		if !in.DiscountedPrice.LessThan(item.Price) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSalePrice, item.Name)
		}
		items = append(items, models.FlashSaleItem{
			ItemID:             in.ItemID,
			DiscountedPrice:    in.DiscountedPrice,
			DiscountPercentage: in.DiscountPercentage,
			Quantity:           in.Quantity,
			OrderLimit:         in.OrderLimit,
			Slot:               in.Slot,
		})
	}
	return items, nil
}
