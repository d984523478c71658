package calc

import "github.com/shopspring/decimal"

// VoucherDiscount computes the order-level voucher discount for a subtotal.
// Percentage with a cap wins over a flat value; a voucher carrying neither
// discounts nothing.
func VoucherDiscount(subtotal decimal.Decimal, percentage *int, cap, value *decimal.Decimal) decimal.Decimal {
	if percentage != nil && cap != nil {
		byPercent := subtotal.Mul(decimal.NewFromInt(int64(*percentage))).Div(decimal.NewFromInt(100))
		if cap.LessThan(byPercent) {
			return *cap
		}
		return byPercent
	}
	if value != nil {
		return *value
	}
	return decimal.Zero
}

// OrderTotal is the subtotal less the discount, floored at zero.
func OrderTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
