// Package money renders decimal amounts for people, using go-money's per-currency symbols,
// separators and fraction digits.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USDT is not an ISO currency, so it is registered with go-money on init.
const USDT = "USDT"

const LYD = gomoney.LYD

func init() {
	gomoney.AddCurrency(USDT, "₮", "1 $", ".", ",", 2)
}

// Format renders amount in currency. Unknown currencies fall back to two decimals followed by
// the code.
func Format(amount decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)

	return cur.Formatter().Format(minor.IntPart())
}

// Signed is Format with an explicit "+" on positive amounts. Zero renders as "-".
func Signed(amount decimal.Decimal, currency string) string {
	switch {
	case amount.IsZero():
		return "-"
	case amount.IsPositive():
		return "+" + Format(amount, currency)
	}

	return Format(amount, currency)
}

// Percent renders a ratio such as a margin with two decimals.
func Percent(ratio decimal.Decimal) string {
	return ratio.Shift(2).StringFixed(2) + "%"
}
