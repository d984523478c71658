package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var vnd = accounting.Accounting{Symbol: "₫", Precision: 0, Thousand: ".", Format: "%v %s"}

// VND renders an amount the way receipts and mails show it, e.g. "1.250.000 ₫".
func VND(amount decimal.Decimal) string {
	return vnd.FormatMoneyDecimal(amount)
}
