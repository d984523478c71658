package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestVND(t *testing.T) {
	assert.Equal(t, "1.250.000 ₫", VND(decimal.NewFromInt(1250000)))
	assert.Equal(t, "0 ₫", VND(decimal.Zero))
}
