package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
)

// Settlement is how the surplus of a trade is settled. Exactly one mode is active;
// the zero value is Standard.
type Settlement struct {
	mode             calc.Mode
	bankSellRate     *decimal.Decimal
	retainedCurrency Currency
}

// Standard liquidates everything at the USDT rate.
func Standard() Settlement {
	return Settlement{mode: calc.ModeStandard}
}

// Hybrid sells the surplus through a separate channel. A nil rate uses the USDT rate.
func Hybrid(bankSellRate *decimal.Decimal) Settlement {
	return Settlement{mode: calc.ModeHybrid, bankSellRate: bankSellRate}
}

// Retained keeps the surplus offshore in currency. Empty currency means USDT.
func Retained(currency Currency) Settlement {
	if currency == "" {
		currency = CurrencyUSDT
	}

	return Settlement{mode: calc.ModeRetained, retainedCurrency: currency}
}

// ParseSettlement builds a settlement from its stored or wire form.
func ParseSettlement(mode calc.Mode, bankSellRate *decimal.Decimal, retainedCurrency Currency) (Settlement, error) {
	var s Settlement

	switch mode {
	case calc.ModeStandard, "":
		s = Standard()
	case calc.ModeHybrid:
		s = Hybrid(bankSellRate)
	case calc.ModeRetained:
		s = Retained(retainedCurrency)
	default:
		return Settlement{}, validationf("unknown settlement mode %q", mode)
	}

	if err := s.Validate(); err != nil {
		return Settlement{}, err
	}

	return s, nil
}

func (s Settlement) Mode() calc.Mode {
	if s.mode == "" {
		return calc.ModeStandard
	}

	return s.mode
}

// BankSellRate is nil unless the settlement is hybrid with an explicit rate.
func (s Settlement) BankSellRate() *decimal.Decimal {
	if s.mode != calc.ModeHybrid {
		return nil
	}

	return s.bankSellRate
}

// RetainedCurrency is empty unless the settlement is retained.
func (s Settlement) RetainedCurrency() Currency {
	if s.mode != calc.ModeRetained {
		return ""
	}

	return s.retainedCurrency
}

func (s Settlement) IsHybrid() bool   { return s.mode == calc.ModeHybrid }
func (s Settlement) IsRetained() bool { return s.mode == calc.ModeRetained }

// Validate checks the mode specific fields.
func (s Settlement) Validate() error {
	switch s.Mode() {
	case calc.ModeHybrid:
		if s.bankSellRate != nil && s.bankSellRate.IsNegative() {
			return validationf("bank sell rate cannot be negative")
		}
	case calc.ModeRetained:
		if !s.retainedCurrency.ValidRetained() {
			return validationf("cannot retain funds in %q", s.retainedCurrency)
		}
	}

	return nil
}

// Profit is either computed by the engine or overridden by hand.
type Profit struct {
	override *decimal.Decimal
}

// Computed defers to the engine. Resetting an override is assigning Computed().
func Computed() Profit {
	return Profit{}
}

// Overridden pins the profit to v.
func Overridden(v decimal.Decimal) Profit {
	return Profit{override: &v}
}

// Override returns the manual value, if any.
func (p Profit) Override() (decimal.Decimal, bool) {
	if p.override == nil {
		return decimal.Zero, false
	}

	return *p.override, true
}

func (p Profit) IsOverridden() bool {
	return p.override != nil
}

// Resolve returns the profit to report for m.
func (p Profit) Resolve(m calc.Metrics) decimal.Decimal {
	if p.override != nil {
		return *p.override
	}

	return m.Profit
}
