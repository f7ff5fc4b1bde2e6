package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type calcCmd struct {
	out io.Writer

	currency string
	fiat     string
	fiatRate string
	usdt     string
	usdtRate string
	mode     string
	bankRate string
	retained string
	raw      bool
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "compute the figures of a trade without storing it" }
func (*calcCmd) Usage() string {
	return `arbitra calc -fiat <amount> -fiat-rate <rate> -usdt <amount> -usdt-rate <rate> [-mode standard|hybrid|retained]

  Prints cost, cover, surplus, return, profit and margin of a trade.
  Numbers accept both "1.234,56" and "1,234.56".
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "EUR", "Fiat currency (EUR, GBP).")
	f.StringVar(&c.fiat, "fiat", "", "Fiat amount bought.")
	f.StringVar(&c.fiatRate, "fiat-rate", "", "LYD paid per fiat unit.")
	f.StringVar(&c.usdt, "usdt", "", "USDT received.")
	f.StringVar(&c.usdtRate, "usdt-rate", "", "LYD per USDT.")
	f.StringVar(&c.mode, "mode", "standard", "Settlement mode (standard, hybrid, retained).")
	f.StringVar(&c.bankRate, "bank-rate", "", "Bank sell rate for hybrid settlements.")
	f.StringVar(&c.retained, "retained", "USDT", "Currency the surplus is kept in for retained settlements.")
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown.")
}

func (c *calcCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	p, err := c.params()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	if err := p.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(c.out, calcMarkdown(p), c.raw)

	return subcommands.ExitSuccess
}

func (c *calcCmd) params() (transaction.CreateParams, error) {
	var (
		p   transaction.CreateParams
		err error
	)

	p.FiatCurrency = transaction.Currency(strings.ToUpper(c.currency))

	numbers := []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"fiat", c.fiat, &p.FiatAmount},
		{"fiat-rate", c.fiatRate, &p.FiatRate},
		{"usdt", c.usdt, &p.UsdtAmount},
		{"usdt-rate", c.usdtRate, &p.UsdtRate},
	}

	for _, n := range numbers {
		if *n.dst, err = calc.ParseStrict(n.raw); err != nil {
			return p, fmt.Errorf("-%s: %w", n.flag, err)
		}
	}

	var bankRate *decimal.Decimal

	if c.bankRate != "" {
		d, err := calc.ParseStrict(c.bankRate)
		if err != nil {
			return p, fmt.Errorf("-bank-rate: %w", err)
		}

		bankRate = &d
	}

	p.Settlement, err = transaction.ParseSettlement(
		calc.Mode(strings.ToLower(c.mode)),
		bankRate,
		transaction.Currency(strings.ToUpper(c.retained)),
	)

	return p, err
}

func calcMarkdown(p transaction.CreateParams) string {
	line := p.Line()
	m := line.Metrics

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s → USDT → LYD (%s)\n\n", p.FiatCurrency, p.Settlement.Mode())
	sb.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&sb, "| Fiat | %s |\n", money.Format(p.FiatAmount, string(p.FiatCurrency)))
	fmt.Fprintf(&sb, "| USDT | %s |\n", money.Format(p.UsdtAmount, money.USDT))
	fmt.Fprintf(&sb, "| Cost | %s |\n", money.Format(m.CostLyd, money.LYD))
	fmt.Fprintf(&sb, "| USDT to cover cost | %s |\n", money.Format(m.UsdtToCoverCost, money.USDT))
	fmt.Fprintf(&sb, "| Surplus | %s |\n", money.Format(m.SurplusUsdt, money.USDT))
	fmt.Fprintf(&sb, "| Return | %s |\n", money.Format(m.ReturnLyd, money.LYD))
	fmt.Fprintf(&sb, "| Profit | %s |\n", money.Signed(line.Profit, money.LYD))
	fmt.Fprintf(&sb, "| Margin | %s |\n", money.Percent(line.Margin))

	if p.Settlement.IsRetained() {
		fmt.Fprintf(&sb, "| Realized profit | %s |\n", money.Signed(m.RealizedProfit, money.LYD))
		fmt.Fprintf(&sb, "| Retained | %s |\n",
			money.Format(line.RetainedAmount, string(p.Settlement.RetainedCurrency())))
	}

	return sb.String()
}
