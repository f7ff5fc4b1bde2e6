package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

const dbTimeout = 5 * time.Second

// FormatLyd formats an LYD amount with the currency's three decimals.
func FormatLyd(d decimal.Decimal) string {
	return money.Format(d, money.LYD)
}

// FormatAmount formats d in currency c.
func FormatAmount(d decimal.Decimal, c transaction.Currency) string {
	return money.Format(d, string(c))
}

// FormatDate formats a time.Time into YYYY-MM-DD. Zero times render as "-".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("2006-01-02")
}

// FormatSteps renders the three progress markers as a compact checklist.
func FormatSteps(s transaction.Steps) string {
	mark := func(done bool) string {
		if done {
			return "x"
		}

		return " "
	}

	return "[" + mark(s.FiatAcquired) + "][" + mark(s.UsdtSold) + "][" + mark(s.FiatPaid) + "]"
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
