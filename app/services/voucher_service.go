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

type VoucherInput struct {
	Name               string
	VoucherCode        string
	MinSpend           decimal.Decimal
	DiscountCap        *decimal.Decimal
	DiscountPercentage *int
	DiscountValue      *decimal.Decimal
	UsageLimitPerUser  int
	MaxCount           int
	StartTime          time.Time
	EndTime            time.Time
}

type VoucherService struct {
	voucherRepo repositories.VoucherRepositoryImpl
	clock       clockwork.Clock
}

func NewVoucherService(voucherRepo repositories.VoucherRepositoryImpl, clock clockwork.Clock) *VoucherService {
	return &VoucherService{voucherRepo: voucherRepo, clock: clock}
}

func (s *VoucherService) List(ctx context.Context, keyword string, limit, offset int) ([]models.Voucher, int64, error) {
	return s.voucherRepo.GetPaginated(ctx, keyword, limit, offset)
}

func (s *VoucherService) GetRecommended(ctx context.Context, userID string) ([]models.Voucher, error) {
	return s.voucherRepo.GetRecommended(ctx, userID, s.clock.Now())
}

func (s *VoucherService) GetDetail(ctx context.Context, id uint) (*models.Voucher, error) {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get voucher %d: %w", id, err)
	}
	if voucher == nil {
		return nil, ErrVoucherNotFound
	}
	return voucher, nil
}

// Create rejects a code still in use by a voucher that has not ended yet;
// ended vouchers free their code for reuse.
func (s *VoucherService) Create(ctx context.Context, input VoucherInput) (*models.Voucher, error) {
	existing, err := s.voucherRepo.FindActiveByCode(ctx, input.VoucherCode, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check voucher code: %w", err)
	}
	if existing != nil {
		return nil, ErrVoucherCodeExists
	}

	voucher := &models.Voucher{
		Name:               input.Name,
		VoucherCode:        input.VoucherCode,
		MinSpend:           input.MinSpend,
		DiscountCap:        input.DiscountCap,
		DiscountPercentage: input.DiscountPercentage,
		DiscountValue:      input.DiscountValue,
		UsageLimitPerUser:  input.UsageLimitPerUser,
		MaxCount:           input.MaxCount,
		StartTime:          input.StartTime,
		EndTime:            input.EndTime,
	}
	if err := s.voucherRepo.Create(ctx, voucher); err != nil {
		return nil, fmt.Errorf("failed to create voucher: %w", err)
	}
	return voucher, nil
}

// Update is window-gated: an UPCOMING voucher may change everything but its
// code, an ONGOING one only its name, end time, caps and per-user limit, an
// ENDED one nothing.
func (s *VoucherService) Update(ctx context.Context, id uint, input VoucherInput) error {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get voucher %d: %w", id, err)
	}
	if voucher == nil {
		return ErrVoucherNotFound
	}

	switch voucher.Status(s.clock.Now()) {
	case models.VoucherStatusEnded:
		return ErrVoucherEnded
	case models.VoucherStatusUpcoming:
		voucher.Name = input.Name
		voucher.MinSpend = input.MinSpend
		voucher.DiscountCap = input.DiscountCap
		voucher.DiscountPercentage = input.DiscountPercentage
		voucher.DiscountValue = input.DiscountValue
		voucher.UsageLimitPerUser = input.UsageLimitPerUser
		voucher.MaxCount = input.MaxCount
		voucher.StartTime = input.StartTime
		voucher.EndTime = input.EndTime
	default:
		voucher.Name = input.Name
		voucher.EndTime = input.EndTime
		voucher.UsageLimitPerUser = input.UsageLimitPerUser
		voucher.MaxCount = input.MaxCount
	}

	return s.voucherRepo.Update(ctx, voucher)
}

// Delete only removes vouchers that have not started yet.
func (s *VoucherService) Delete(ctx context.Context, id uint) error {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get voucher %d: %w", id, err)
	}
	if voucher == nil {
		return ErrVoucherNotFound
	}
	if voucher.Status(s.clock.Now()) != models.VoucherStatusUpcoming {
		return ErrVoucherNotUpcoming
	}
	return s.voucherRepo.Delete(ctx, id)
}

// EndNow closes the validity window immediately.
func (s *VoucherService) EndNow(ctx context.Context, id uint) error {
	voucher, err := s.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get voucher %d: %w", id, err)
	}
	if voucher == nil {
		return ErrVoucherNotFound
	}
	voucher.EndTime = s.clock.Now()
	return s.voucherRepo.Update(ctx, voucher)
}
