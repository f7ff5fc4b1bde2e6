package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/arbitra/internal/money"
)

func TestFormat(t *testing.T) {
	type testCase struct {
		name     string
		amount   string
		currency string
		want     string
	}

	tests := []testCase{
		{name: "EUR", amount: "1234.5", currency: "EUR", want: "€1,234.50"},
		{name: "GBP", amount: "0.456", currency: "GBP", want: "£0.46"},
		{name: "USDT", amount: "1100", currency: money.USDT, want: "1,100.00 ₮"},
		{name: "Negative", amount: "-5", currency: "EUR", want: "-€5.00"},
		{name: "Unknown", amount: "3.14159", currency: "XYZ", want: "3.14 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Format(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestFormat_LYD(t *testing.T) {
	got := money.Format(decimal.RequireFromString("7500"), money.LYD)
	assert.Contains(t, got, "7,500.000")
}

func TestSigned(t *testing.T) {
	assert.Equal(t, "-", money.Signed(decimal.Zero, "EUR"))
	assert.Equal(t, "+€2.00", money.Signed(decimal.NewFromInt(2), "EUR"))
	assert.Equal(t, "-€2.00", money.Signed(decimal.NewFromInt(-2), "EUR"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "13.33%", money.Percent(decimal.RequireFromString("0.13333")))
	assert.Equal(t, "0.00%", money.Percent(decimal.Zero))
}
