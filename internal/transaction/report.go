package transaction

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
)

// Line is a record together with its engine output.
type Line struct {
	Record         *Record
	Metrics        calc.Metrics
	Profit         decimal.Decimal // effective: override or computed
	RealizedProfit decimal.Decimal // effective profit, zero when retained
	Margin         decimal.Decimal
	RetainedAmount decimal.Decimal
}

// LineFor runs the engine once for r.
func LineFor(r *Record) Line {
	m := r.Metrics()
	profit := r.Profit.Resolve(m)

	realized := profit
	if r.Settlement.IsRetained() {
		realized = m.RealizedProfit
	}

	return Line{
		Record:         r,
		Metrics:        m,
		Profit:         profit,
		RealizedProfit: realized,
		Margin:         calc.Margin(profit, m.CostLyd),
		RetainedAmount: r.RetainedAmount(),
	}
}

// RetainedTotal is the capital held offshore in one currency.
type RetainedTotal struct {
	Currency Currency
	Amount   decimal.Decimal
	// ValueLyd is the mark-to-market valuation reported by the engine.
	ValueLyd decimal.Decimal
}

// HolderCapital is the retained capital held by one investor in one currency.
type HolderCapital struct {
	HolderID   uuid.UUID
	HolderName string
	Currency   Currency
	Amount     decimal.Decimal
}

// Summary aggregates the lines of a set of records.
type Summary struct {
	Count          int
	Cancelled      int
	TotalCost      decimal.Decimal
	TotalReturn    decimal.Decimal
	RealizedReturn decimal.Decimal
	TotalProfit    decimal.Decimal
	RealizedProfit decimal.Decimal
	AverageProfit  decimal.Decimal
	Margin         decimal.Decimal

	Retained        []RetainedTotal
	InvestorCapital []HolderCapital
}

// Summarize sums per-record engine output. Cancelled records are counted but excluded from
// the totals. investors maps investor holder ids to their names.
func Summarize(records []*Record, investors map[uuid.UUID]string) Summary {
	s := Summary{
		TotalCost:      decimal.Zero,
		TotalReturn:    decimal.Zero,
		RealizedReturn: decimal.Zero,
		TotalProfit:    decimal.Zero,
		RealizedProfit: decimal.Zero,
		AverageProfit:  decimal.Zero,
		Margin:         decimal.Zero,
	}

	retained := make(map[Currency]*RetainedTotal)

	type capitalKey struct {
		holder   uuid.UUID
		currency Currency
	}

	capital := make(map[capitalKey]*HolderCapital)

	for _, r := range records {
		if r.Status == StatusCancelled {
			s.Cancelled++
			continue
		}

		l := LineFor(r)
		s.Count++
		s.TotalCost = s.TotalCost.Add(l.Metrics.CostLyd)
		s.TotalReturn = s.TotalReturn.Add(l.Metrics.ReturnLyd)
		s.RealizedReturn = s.RealizedReturn.Add(l.Metrics.RealizedReturnLyd)
		s.TotalProfit = s.TotalProfit.Add(l.Profit)
		s.RealizedProfit = s.RealizedProfit.Add(l.RealizedProfit)

		if !r.Settlement.IsRetained() {
			continue
		}

		cur := r.Settlement.RetainedCurrency()

		rt, ok := retained[cur]
		if !ok {
			rt = &RetainedTotal{Currency: cur, Amount: decimal.Zero, ValueLyd: decimal.Zero}
			retained[cur] = rt
		}

		rt.Amount = rt.Amount.Add(l.RetainedAmount)
		rt.ValueLyd = rt.ValueLyd.Add(l.Metrics.Profit)

		if r.HolderID == nil {
			continue
		}

		name, isInvestor := investors[*r.HolderID]
		if !isInvestor {
			continue
		}

		k := capitalKey{holder: *r.HolderID, currency: cur}

		hc, ok := capital[k]
		if !ok {
			hc = &HolderCapital{HolderID: *r.HolderID, HolderName: name, Currency: cur, Amount: decimal.Zero}
			capital[k] = hc
		}

		hc.Amount = hc.Amount.Add(l.RetainedAmount)
	}

	if s.Count > 0 {
		s.AverageProfit = s.TotalProfit.Div(decimal.NewFromInt(int64(s.Count)))
	}

	s.Margin = calc.Margin(s.TotalProfit, s.TotalCost)

	for _, rt := range retained {
		s.Retained = append(s.Retained, *rt)
	}

	slices.SortFunc(s.Retained, func(a, b RetainedTotal) int {
		return cmp.Compare(a.Currency, b.Currency)
	})

	for _, hc := range capital {
		s.InvestorCapital = append(s.InvestorCapital, *hc)
	}

	slices.SortFunc(s.InvestorCapital, func(a, b HolderCapital) int {
		if c := cmp.Compare(a.HolderName, b.HolderName); c != 0 {
			return c
		}

		return cmp.Compare(a.Currency, b.Currency)
	})

	return s
}
