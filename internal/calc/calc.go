// Package calc computes the financial figures of a fiat → USDT → LYD round trip.
//
// Compute is the only place the arithmetic lives. Every caller (calculator preview, inline
// edits, reports, exports, imports) goes through it so figures agree everywhere.
package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode is the settlement strategy used for the surplus USDT.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeHybrid   Mode = "hybrid"
	ModeRetained Mode = "retained"
)

// Valid reports whether m is a known settlement mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeStandard, ModeHybrid, ModeRetained:
		return true
	}

	return false
}

// Input holds the trade inputs of a single transaction.
type Input struct {
	FiatAmount decimal.Decimal
	FiatRate   decimal.Decimal // LYD per fiat unit
	UsdtAmount decimal.Decimal
	UsdtRate   decimal.Decimal // LYD per USDT
	Mode       Mode
	// BankSellRate is only read in hybrid mode. Nil falls back to UsdtRate.
	BankSellRate *decimal.Decimal
}

// Metrics is the full set of derived figures for an Input.
type Metrics struct {
	CostLyd           decimal.Decimal
	UsdtToCoverCost   decimal.Decimal
	SurplusUsdt       decimal.Decimal
	Profit            decimal.Decimal
	RealizedProfit    decimal.Decimal
	ReturnLyd         decimal.Decimal
	RealizedReturnLyd decimal.Decimal
	ReturnUsdt        decimal.Decimal
}

// Compute derives the metrics for in. It never fails: unknown modes are computed as standard
// and non-positive USDT rates produce a zero cover amount.
func Compute(in Input) Metrics {
	cost := in.FiatAmount.Mul(in.FiatRate)

	cover := decimal.Zero
	if in.UsdtRate.IsPositive() {
		cover = cost.Div(in.UsdtRate)
	}

	surplus := decimal.Max(decimal.Zero, in.UsdtAmount.Sub(cover))

	m := Metrics{
		CostLyd:         cost,
		UsdtToCoverCost: cover,
		SurplusUsdt:     surplus,
		ReturnUsdt:      in.UsdtAmount,
	}

	switch in.Mode {
	case ModeHybrid:
		rate := in.UsdtRate
		if in.BankSellRate != nil {
			rate = *in.BankSellRate
		}

		m.Profit = surplus.Mul(rate)
		m.RealizedProfit = m.Profit
		m.ReturnLyd = cost.Add(m.Profit)
		m.RealizedReturnLyd = m.ReturnLyd
	case ModeRetained:
		// Valuation only: the surplus stays offshore, LYD realization is just the cost.
		m.Profit = surplus.Mul(in.UsdtRate)
		m.RealizedProfit = decimal.Zero
		m.ReturnLyd = cost.Add(m.Profit)
		m.RealizedReturnLyd = cost
	default:
		m.ReturnLyd = in.UsdtAmount.Mul(in.UsdtRate)
		m.Profit = m.ReturnLyd.Sub(cost)
		m.RealizedProfit = m.Profit
		m.RealizedReturnLyd = m.ReturnLyd
	}

	return m
}

// Margin returns profit / cost, or zero when cost is zero.
func Margin(profit, cost decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}

	return profit.Div(cost)
}

// FromFloat converts f to a decimal, mapping NaN and ±Inf to zero.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(f)
}

// Parse reads a user-typed number. Blank or malformed input is zero.
// Both "1.234,56" and "1,234.56" are accepted.
func Parse(s string) decimal.Decimal {
	d, err := ParseStrict(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// ParseStrict is Parse for callers that must reject malformed input. Blank input is zero.
func ParseStrict(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return decimal.Zero, nil
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastComma > lastDot:
		// Comma is the decimal separator.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}

	return d, nil
}
