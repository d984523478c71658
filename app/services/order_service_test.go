package services

import (
	"context"
	"testing"
	"time"

	"shop_backend/app/models"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	transactor    *fakeTransactor
	itemRepo      *fakeItemRepo
	flashSaleRepo *fakeFlashSaleRepo
	voucherRepo   *fakeVoucherRepo
	orderRepo     *fakeOrderRepo
	userRepo      *fakeUserRepo
	svc           *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		transactor:    &fakeTransactor{},
		itemRepo:      newFakeItemRepo(),
		flashSaleRepo: newFakeFlashSaleRepo(),
		voucherRepo:   newFakeVoucherRepo(),
		orderRepo:     newFakeOrderRepo(),
		userRepo:      newFakeUserRepo(),
	}
	clock := clockwork.NewFakeClockAt(testNow)
	pricing := NewPricingService(f.itemRepo, f.voucherRepo, f.orderRepo, clock)
	f.svc = NewOrderService(f.transactor, f.itemRepo, f.flashSaleRepo, f.voucherRepo, f.orderRepo, f.userRepo, pricing, nil, clock)
	return f
}

func (f *orderFixture) addItem(id uint, price int64, stock int) {
	f.itemRepo.items[id] = &models.Item{
		ID:        id,
		Name:      "item",
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		IsActived: true,
	}
}

func (f *orderFixture) addVoucher(id uint, minSpend int64, pct int, cap int64, perUser, maxCount, usedCount int) {
	f.voucherRepo.vouchers[id] = &models.Voucher{
		ID:                 id,
		MinSpend:           decimal.NewFromInt(minSpend),
		DiscountPercentage: intPtr(pct),
		DiscountCap:        decPtr(cap),
		UsageLimitPerUser:  perUser,
		MaxCount:           maxCount,
		UsedCount:          usedCount,
		StartTime:          testNow.Add(-time.Hour),
		EndTime:            testNow.Add(time.Hour),
	}
}

func (f *orderFixture) addActiveFlashSale(itemID uint, discounted int64, quantity int) {
	qty := quantity
	fsi := &models.FlashSaleItem{
		FlashSaleID: 7,
		ItemID:      itemID,
		FlashSale: models.FlashSale{
			ID:        7,
			StartTime: testNow.Add(-time.Hour),
			EndTime:   testNow.Add(time.Hour),
		},
		DiscountedPrice: decimal.NewFromInt(discounted),
		Quantity:        &qty,
	}
	f.itemRepo.activeSales[itemID] = fsi
	cp := *fsi
	f.flashSaleRepo.saleItems[soldKey{7, itemID}] = &cp
}

func testRecipient() RecipientInput {
	return RecipientInput{
		Fullname: "Nguyen Van A",
		Phone:    "0900000000",
		Province: "Hanoi",
		District: "Dong Da",
		Commune:  "Lang Thuong",
		Address:  "12 Lang St",
	}
}

func TestCreateOrderPersistsTotals(t *testing.T) {
	f := newOrderFixture()
	f.addItem(1, 100, 5)

	order, err := f.svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:           []CartLine{{ItemID: 1, Quantity: 2}},
		PaymentMethodID: 1,
		Recipient:       testRecipient(),
	})
	require.NoError(t, err)

	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, order.VoucherPrice.IsZero())
	assert.Nil(t, order.VoucherID)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatusID)
	assert.Equal(t, "12 Lang St, Lang Thuong, Dong Da, Hanoi", order.RecipientAddress)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(100)), "line price frozen at order time")

	assert.Equal(t, 1, f.transactor.calls)
	require.Len(t, f.itemRepo.stockCalls, 1)
	assert.Equal(t, stockCall{ItemID: 1, Qty: 2}, f.itemRepo.stockCalls[0])
	assert.Equal(t, 3, f.itemRepo.items[1].Stock)
	assert.Equal(t, 2, f.itemRepo.items[1].Sold)
}

func TestCreateOrderWithVoucherRecordsRedemption(t *testing.T) {
	f := newOrderFixture()
	f.addItem(1, 250, 5)
	f.addVoucher(3, 200, 10, 15, 1, 10, 0)
	voucherID := uint(3)

	order, err := f.svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:           []CartLine{{ItemID: 1, Quantity: 1}},
		VoucherID:       &voucherID,
		PaymentMethodID: 1,
		Recipient:       testRecipient(),
	})
	require.NoError(t, err)

	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(235)))
	assert.True(t, order.VoucherPrice.Equal(decimal.NewFromInt(15)))
	require.NotNil(t, order.VoucherID)
	assert.Equal(t, voucherID, *order.VoucherID)

	assert.Equal(t, 1, f.voucherRepo.vouchers[voucherID].UsedCount)
	assert.Equal(t, 1, f.voucherRepo.redemptions[redemptionKey{voucherID, "u1"}])
}

func TestCreateOrderVoucherBelowMinSpendNotRecorded(t *testing.T) {
	f := newOrderFixture()
	f.addItem(1, 150, 5)
	f.addVoucher(3, 200, 10, 15, 1, 10, 0)
	voucherID := uint(3)

	order, err := f.svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:           []CartLine{{ItemID: 1, Quantity: 1}},
		VoucherID:       &voucherID,
		PaymentMethodID: 1,
		Recipient:       testRecipient(),
	})
	require.NoError(t, err)

	assert.Nil(t, order.VoucherID)
	assert.Equal(t, 0, f.voucherRepo.vouchers[voucherID].UsedCount)
	assert.Empty(t, f.voucherRepo.redemptions)
}

func TestCreateOrderVoucherUserLimitAborts(t *testing.T) {
	f := newOrderFixture()
	f.addItem(1, 250, 5)
	f.addVoucher(3, 200, 10, 15, 1, 10, 0)
	voucherID := uint(3)
	f.voucherRepo.redemptions[redemptionKey{voucherID, "u1"}] = 1

	_, err := f.svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:           []CartLine{{ItemID: 1, Quantity: 1}},
		VoucherID:       &voucherID,
		PaymentMethodID: 1,
		Recipient:       testRecipient(),
	})
	assert.ErrorIs(t, err, ErrVoucherUserLimit)
	assert.Empty(t, f.itemRepo.stockCalls, "stock untouched when the voucher check aborts")
}

func TestCreateOrderFlashSaleIncrementsSold(t *testing.T) {
	f := newOrderFixture()
	f.addItem(1, 100, 5)
	f.addActiveFlashSale(1, 80, 3)

	order, err := f.svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:           []CartLine{{ItemID: 1, Quantity: 2}},
		PaymentMethodID: 1,
		Recipient:       testRecipient(),
	})
	require.NoError(t, err)

	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(160)))
	require.Len(t, f.flashSaleRepo.soldCalls, 1)
	assert.Equal(t, 2, f.flashSaleRepo.saleItems[soldKey{7, 1}].Sold)
}

func TestCreateOrderFlashSaleCapRace(t *testing.T) {
	f := newOrderFixture()
	f.addItem(1, 100, 5)
	f.addActiveFlashSale(1, 80, 3)
	// Another buyer takes the remaining campaign units between the pricing
	// pass and the guarded increment.
	f.flashSaleRepo.saleItems[soldKey{7, 1}].Sold = 2

	_, err := f.svc.CreateOrder(context.Background(), "u1", CreateOrderInput{
		Items:           []CartLine{{ItemID: 1, Quantity: 2}},
		PaymentMethodID: 1,
		Recipient:       testRecipient(),
	})
	assert.ErrorIs(t, err, ErrFlashSaleSoldOut)
}

func TestCancelOrderReversesVoucher(t *testing.T) {
	f := newOrderFixture()
	voucherID := uint(3)
	f.voucherRepo.redemptions[redemptionKey{voucherID, "u1"}] = 1
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusPending,
		VoucherID:     &voucherID,
	}

	err := f.svc.CancelOrder(context.Background(), "u1", "o1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, f.orderRepo.orders["o1"].OrderStatusID)
	require.Len(t, f.voucherRepo.reverseCalls, 1)
	assert.NotContains(t, f.voucherRepo.redemptions, redemptionKey{voucherID, "u1"})
}

func TestCancelOrderWithoutVoucherLeavesCountersAlone(t *testing.T) {
	f := newOrderFixture()
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusConfirmed,
	}

	err := f.svc.CancelOrder(context.Background(), "u1", "o1")
	require.NoError(t, err)
	assert.Empty(t, f.voucherRepo.reverseCalls)
}

func TestCancelOrderRejectsShippedOrder(t *testing.T) {
	f := newOrderFixture()
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusShipping,
	}

	err := f.svc.CancelOrder(context.Background(), "u1", "o1")
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestCancelOrderRejectsForeignOrder(t *testing.T) {
	f := newOrderFixture()
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u2",
		OrderStatusID: models.OrderStatusPending,
	}

	err := f.svc.CancelOrder(context.Background(), "u1", "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRefundOrderOnlyFromDelivered(t *testing.T) {
	f := newOrderFixture()
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusDelivered,
	}
	f.orderRepo.orders["o2"] = &models.Order{
		ID:            "o2",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusShipping,
	}

	require.NoError(t, f.svc.RefundOrder(context.Background(), "u1", "o1"))
	assert.Equal(t, models.OrderStatusReturnedRefund, f.orderRepo.orders["o1"].OrderStatusID)

	assert.ErrorIs(t, f.svc.RefundOrder(context.Background(), "u1", "o2"), ErrOrderNotRefundable)
}

func TestAdminUpdateStatusToCancelledReversesVoucher(t *testing.T) {
	f := newOrderFixture()
	voucherID := uint(3)
	f.voucherRepo.redemptions[redemptionKey{voucherID, "u1"}] = 2
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusShipping,
		VoucherID:     &voucherID,
	}

	err := f.svc.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, f.orderRepo.orders["o1"].OrderStatusID)
	require.Len(t, f.voucherRepo.reverseCalls, 1)
	assert.Equal(t, 1, f.voucherRepo.redemptions[redemptionKey{voucherID, "u1"}], "one use returned, not all")
}

func TestAdminUpdateStatusOtherTransitionsSkipVoucher(t *testing.T) {
	f := newOrderFixture()
	voucherID := uint(3)
	f.orderRepo.orders["o1"] = &models.Order{
		ID:            "o1",
		UserID:        "u1",
		OrderStatusID: models.OrderStatusShipping,
		VoucherID:     &voucherID,
	}

	err := f.svc.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Empty(t, f.voucherRepo.reverseCalls)
}

func TestGetOrderDetailEnforcesOwnership(t *testing.T) {
	f := newOrderFixture()
	f.orderRepo.orders["o1"] = &models.Order{ID: "o1", UserID: "u2"}

	_, err := f.svc.GetOrderDetail(context.Background(), "u1", "o1")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order, err := f.svc.GetOrderDetail(context.Background(), "u2", "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
}
