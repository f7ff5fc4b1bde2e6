package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
)

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusComplete, StatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether s ends the normal flow.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusCancelled
}

// Currency is an ISO code or USDT.
type Currency string

const (
	CurrencyLYD  Currency = "LYD"
	CurrencyEUR  Currency = "EUR"
	CurrencyGBP  Currency = "GBP"
	CurrencyUSDT Currency = "USDT"
)

// ValidFiat reports whether c can be the fiat leg of a trade.
func (c Currency) ValidFiat() bool {
	return c == CurrencyEUR || c == CurrencyGBP
}

// ValidRetained reports whether c can hold a retained surplus.
func (c Currency) ValidRetained() bool {
	return c == CurrencyUSDT || c == CurrencyEUR || c == CurrencyGBP
}

// PaymentMethod is how the fiat leg is paid out.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
)

// Valid reports whether p is a known payment method.
func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentBank
}

// Channel groups transactions for filtering and display ids.
// It is the payment method, except hybrid settlements which form their own channel.
type Channel string

const (
	ChannelCash   Channel = "cash"
	ChannelBank   Channel = "bank"
	ChannelHybrid Channel = "hybrid"
)

// Step is one of the three independent progress markers.
type Step string

const (
	StepFiatAcquired Step = "fiat_acquired"
	StepUsdtSold     Step = "usdt_sold"
	StepFiatPaid     Step = "fiat_paid"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepFiatAcquired, StepUsdtSold, StepFiatPaid:
		return true
	}

	return false
}

// Steps tracks the progress markers of a transaction.
type Steps struct {
	FiatAcquired bool
	UsdtSold     bool
	FiatPaid     bool
}

// All reports whether every step is done.
func (s Steps) All() bool {
	return s.FiatAcquired && s.UsdtSold && s.FiatPaid
}

// Any reports whether at least one step is done.
func (s Steps) Any() bool {
	return s.FiatAcquired || s.UsdtSold || s.FiatPaid
}

// Get returns the value of step.
func (s Steps) Get(step Step) bool {
	switch step {
	case StepFiatAcquired:
		return s.FiatAcquired
	case StepUsdtSold:
		return s.UsdtSold
	case StepFiatPaid:
		return s.FiatPaid
	}

	return false
}

// With returns a copy of s with step set to done.
func (s Steps) With(step Step, done bool) Steps {
	switch step {
	case StepFiatAcquired:
		s.FiatAcquired = done
	case StepUsdtSold:
		s.UsdtSold = done
	case StepFiatPaid:
		s.FiatPaid = done
	}

	return s
}

// Record is a single fiat → USDT → LYD arbitrage trade.
type Record struct {
	ID           uuid.UUID
	SequenceID   int64 // assigned by the store, never changes
	FiatCurrency Currency
	FiatAmount   decimal.Decimal
	FiatRate     decimal.Decimal
	UsdtAmount   decimal.Decimal
	UsdtRate     decimal.Decimal

	PaymentMethod PaymentMethod
	Settlement    Settlement
	Profit        Profit

	// RetainedOverride replaces the derived retained amount when set.
	RetainedOverride *decimal.Decimal

	Status Status
	Steps  Steps

	HolderID   *uuid.UUID
	HolderName string // Loaded via JOIN

	IsPrivate bool
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Input returns the engine input for the record.
func (r *Record) Input() calc.Input {
	return calc.Input{
		FiatAmount:   r.FiatAmount,
		FiatRate:     r.FiatRate,
		UsdtAmount:   r.UsdtAmount,
		UsdtRate:     r.UsdtRate,
		Mode:         r.Settlement.Mode(),
		BankSellRate: r.Settlement.BankSellRate(),
	}
}

// Metrics runs the engine on the record's current inputs.
func (r *Record) Metrics() calc.Metrics {
	return calc.Compute(r.Input())
}

// EffectiveProfit is the manual override when present, the computed profit otherwise.
func (r *Record) EffectiveProfit() decimal.Decimal {
	return r.Profit.Resolve(r.Metrics())
}

// RetainedAmount is the amount of surplus held in the retained currency.
// It is zero unless the record is retained, and never negative.
func (r *Record) RetainedAmount() decimal.Decimal {
	if !r.Settlement.IsRetained() {
		return decimal.Zero
	}

	if r.RetainedOverride != nil {
		return decimal.Max(decimal.Zero, *r.RetainedOverride)
	}

	m := r.Metrics()

	switch cur := r.Settlement.RetainedCurrency(); {
	case cur == CurrencyUSDT:
		return m.SurplusUsdt
	case cur == r.FiatCurrency && r.FiatRate.IsPositive():
		return m.Profit.Div(r.FiatRate)
	}

	// No rate links USDT to a foreign retained currency; requires an override.
	return decimal.Zero
}

// Channel returns the record's filter channel.
func (r *Record) Channel() Channel {
	if r.Settlement.IsHybrid() {
		return ChannelHybrid
	}

	if r.PaymentMethod == PaymentBank {
		return ChannelBank
	}

	return ChannelCash
}

// RequiresHolder reports whether completing the record needs a holder attached.
func (r *Record) RequiresHolder() bool {
	return r.Settlement.IsRetained() && r.HolderID == nil
}

// Snapshot returns the audited attributes of the record.
func (r *Record) Snapshot() map[string]any {
	snap := map[string]any{
		"fiat_currency":     string(r.FiatCurrency),
		"fiat_amount":       r.FiatAmount.String(),
		"fiat_rate":         r.FiatRate.String(),
		"usdt_amount":       r.UsdtAmount.String(),
		"usdt_rate":         r.UsdtRate.String(),
		"payment_method":    string(r.PaymentMethod),
		"settlement_mode":   string(r.Settlement.Mode()),
		"bank_sell_rate":    decimalOrNil(r.Settlement.BankSellRate()),
		"retained_currency": string(r.Settlement.RetainedCurrency()),
		"retained_override": decimalOrNil(r.RetainedOverride),
		"profit_override":   nil,
		"status":            string(r.Status),
		"fiat_acquired":     r.Steps.FiatAcquired,
		"usdt_sold":         r.Steps.UsdtSold,
		"fiat_paid":         r.Steps.FiatPaid,
		"holder_id":         nil,
		"is_private":        r.IsPrivate,
		"notes":             r.Notes,
	}

	if v, ok := r.Profit.Override(); ok {
		snap["profit_override"] = v.String()
	}

	if r.HolderID != nil {
		snap["holder_id"] = r.HolderID.String()
	}

	return snap
}

func decimalOrNil(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}

	return d.String()
}
