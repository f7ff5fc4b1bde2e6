package transaction_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func trade(usdt string) *transaction.Record {
	return &transaction.Record{
		ID:            uuid.New(),
		FiatCurrency:  transaction.CurrencyEUR,
		FiatAmount:    dec("100"),
		FiatRate:      dec("8"),
		UsdtAmount:    dec(usdt),
		UsdtRate:      dec("8"),
		PaymentMethod: transaction.PaymentCash,
		Status:        transaction.StatusComplete,
	}
}

func TestSummarize(t *testing.T) {
	investorID := uuid.New()
	partnerID := uuid.New()

	standard := trade("110")

	retainedUsdt := trade("120")
	retainedUsdt.Settlement = transaction.Retained(transaction.CurrencyUSDT)
	retainedUsdt.HolderID = &investorID

	retainedEur := trade("110")
	retainedEur.Settlement = transaction.Retained(transaction.CurrencyEUR)
	retainedEur.HolderID = &partnerID

	cancelled := trade("500")
	cancelled.Status = transaction.StatusCancelled

	got := transaction.Summarize(
		[]*transaction.Record{standard, retainedUsdt, cancelled, retainedEur},
		map[uuid.UUID]string{investorID: "Nadia"},
	)

	assert.Equal(t, 3, got.Count)
	assert.Equal(t, 1, got.Cancelled)
	assertDecimal(t, "2400", got.TotalCost)
	assertDecimal(t, "2720", got.TotalReturn)
	assertDecimal(t, "2480", got.RealizedReturn)
	assertDecimal(t, "320", got.TotalProfit)
	assertDecimal(t, "80", got.RealizedProfit)
	assert.Equal(t, "106.67", got.AverageProfit.StringFixed(2))
	assert.Equal(t, "0.1333", got.Margin.StringFixed(4))

	require.Len(t, got.Retained, 2)
	assert.Equal(t, transaction.CurrencyEUR, got.Retained[0].Currency)
	assertDecimal(t, "10", got.Retained[0].Amount)
	assertDecimal(t, "80", got.Retained[0].ValueLyd)
	assert.Equal(t, transaction.CurrencyUSDT, got.Retained[1].Currency)
	assertDecimal(t, "20", got.Retained[1].Amount)
	assertDecimal(t, "160", got.Retained[1].ValueLyd)

	require.Len(t, got.InvestorCapital, 1)
	assert.Equal(t, investorID, got.InvestorCapital[0].HolderID)
	assert.Equal(t, transaction.CurrencyUSDT, got.InvestorCapital[0].Currency)
	assertDecimal(t, "20", got.InvestorCapital[0].Amount)
}

func TestSummarize_Empty(t *testing.T) {
	got := transaction.Summarize(nil, nil)

	assert.Zero(t, got.Count)
	assert.True(t, got.TotalProfit.IsZero())
	assert.True(t, got.AverageProfit.IsZero())
	assert.True(t, got.Margin.IsZero())
	assert.Empty(t, got.Retained)
}

func TestSummarize_ProfitOverride(t *testing.T) {
	standard := trade("110")
	standard.Profit = transaction.Overridden(dec("50"))

	hybrid := trade("110")
	hybrid.Settlement = transaction.Hybrid(nil)
	hybrid.Profit = transaction.Overridden(dec("30"))

	retained := trade("120")
	retained.Settlement = transaction.Retained(transaction.CurrencyUSDT)
	retained.Profit = transaction.Overridden(dec("150"))

	got := transaction.Summarize([]*transaction.Record{standard, hybrid, retained}, nil)

	assertDecimal(t, "230", got.TotalProfit)
	assertDecimal(t, "80", got.RealizedProfit)
	assert.True(t, got.RealizedProfit.LessThanOrEqual(got.TotalProfit))
}

func TestLineFor_ProfitOverride(t *testing.T) {
	r := trade("110")
	r.Profit = transaction.Overridden(dec("95"))

	l := transaction.LineFor(r)

	assertDecimal(t, "80", l.Metrics.Profit)
	assertDecimal(t, "95", l.Profit)
	assertDecimal(t, "95", l.RealizedProfit)
	assertDecimal(t, "0.11875", l.Margin)
}

func TestRecord_RetainedAmount(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *transaction.Record)
		want  string
	}{
		{name: "Standard", setup: func(*transaction.Record) {}, want: "0"},
		{
			name:  "USDT",
			setup: func(r *transaction.Record) { r.Settlement = transaction.Retained("") },
			want:  "10",
		},
		{
			name:  "SameAsFiat",
			setup: func(r *transaction.Record) { r.Settlement = transaction.Retained(transaction.CurrencyEUR) },
			want:  "10",
		},
		{
			name:  "ForeignCurrency",
			setup: func(r *transaction.Record) { r.Settlement = transaction.Retained(transaction.CurrencyGBP) },
			want:  "0",
		},
		{
			name: "Override",
			setup: func(r *transaction.Record) {
				r.Settlement = transaction.Retained(transaction.CurrencyGBP)
				r.RetainedOverride = ptrTo(dec("8.5"))
			},
			want: "8.5",
		},
		{
			name: "NegativeOverrideClamped",
			setup: func(r *transaction.Record) {
				r.Settlement = transaction.Retained(transaction.CurrencyUSDT)
				r.RetainedOverride = ptrTo(dec("-3"))
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := trade("110")
			tt.setup(r)

			assertDecimal(t, tt.want, r.RetainedAmount())
		})
	}
}
