package services

import "errors"

// Business-rule failures raised by the pricing engine and the order
// coordinator. Handlers map these onto HTTP statuses; anything else is an
// infrastructure error.
var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemInactive     = errors.New("item is not available for sale")
	ErrOutOfStock       = errors.New("item is out of stock")
	ErrFlashSaleSoldOut = errors.New("flash sale quantity is exhausted")

	ErrVoucherNotFound    = errors.New("voucher not found")
	ErrVoucherExpired     = errors.New("voucher has expired")
	ErrVoucherExhausted   = errors.New("voucher has no uses left")
	ErrVoucherUserLimit   = errors.New("voucher usage limit per user reached")
	ErrVoucherCodeExists  = errors.New("voucher code already exists")
	ErrVoucherEnded       = errors.New("voucher has already ended")
	ErrVoucherNotUpcoming = errors.New("voucher is ongoing or ended")

	ErrFlashSaleNotFound    = errors.New("flash sale not found")
	ErrFlashSaleEnded       = errors.New("flash sale has already ended")
	ErrFlashSaleNotUpcoming = errors.New("flash sale is ongoing or ended")
	ErrInvalidSaleWindow    = errors.New("invalid flash sale window")
	ErrInvalidSalePrice     = errors.New("discounted price must be below the regular price")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("order is not in a valid status to cancel")
	ErrOrderNotRefundable  = errors.New("order is not in a valid status to refund")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
