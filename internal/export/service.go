package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export

// Reporter lists records with their engine output.
type Reporter interface {
	Report(ctx context.Context, filter transaction.ListFilter) (transaction.Summary, []transaction.Line, error)
}

// Report is one export of the ledger.
type Report struct {
	Filter      transaction.ListFilter
	Summary     transaction.Summary
	Lines       []transaction.Line
	GeneratedAt time.Time
}

// Service builds ledger exports.
type Service struct {
	reports Reporter
	now     func() time.Time
}

func NewService(reports Reporter) *Service {
	return &Service{reports: reports, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Export collects every record matching filter.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter) (*Report, error) {
	summary, lines, err := s.reports.Report(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	return &Report{
		Filter:      filter,
		Summary:     summary,
		Lines:       lines,
		GeneratedAt: s.now(),
	}, nil
}

// csvHeader starts with the columns the ledger import reads, so an export can be imported back.
var csvHeader = []string{
	"created_at", "fiat_currency", "fiat_amount", "fiat_rate", "usdt_amount", "usdt_rate",
	"payment_method", "settlement_mode", "bank_sell_rate", "retained_currency", "is_private", "notes",
	"display_id", "status", "holder", "cost_lyd", "return_lyd", "profit", "margin", "retained_amount",
}

// WriteCSV writes lines semicolon separated, one trade per row.
func WriteCSV(w io.Writer, lines []transaction.Line) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, l := range lines {
		if err := cw.Write(csvRow(l)); err != nil {
			return fmt.Errorf("writing %s: %w", l.Record.DisplayID(), err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func csvRow(l transaction.Line) []string {
	r := l.Record

	bankRate := ""
	if rate := r.Settlement.BankSellRate(); rate != nil {
		bankRate = rate.String()
	}

	return []string{
		r.CreatedAt.UTC().Format(time.RFC3339),
		string(r.FiatCurrency),
		r.FiatAmount.String(),
		r.FiatRate.String(),
		r.UsdtAmount.String(),
		r.UsdtRate.String(),
		string(r.PaymentMethod),
		string(r.Settlement.Mode()),
		bankRate,
		string(r.Settlement.RetainedCurrency()),
		strconv.FormatBool(r.IsPrivate),
		r.Notes,
		r.DisplayID(),
		string(r.Status),
		r.HolderName,
		l.Metrics.CostLyd.StringFixed(3),
		l.Metrics.ReturnLyd.StringFixed(3),
		l.Profit.StringFixed(3),
		l.Margin.StringFixed(4),
		l.RetainedAmount.StringFixed(2),
	}
}

// Markdown renders the report as a document: totals first, then one table row per trade.
func Markdown(rep *Report) string {
	var sb strings.Builder

	s := rep.Summary

	fmt.Fprintf(&sb, "# Ledger report\n\n")
	fmt.Fprintf(&sb, "Generated %s", rep.GeneratedAt.Format("2006-01-02 15:04"))

	if p := rep.Filter.Period; p != "" && p != transaction.PeriodAllTime {
		fmt.Fprintf(&sb, " for %s", strings.ToLower(p.String()))
	}

	sb.WriteString(".\n\n## Summary\n\n")
	sb.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&sb, "| Trades | %d |\n", s.Count)

	if s.Cancelled > 0 {
		fmt.Fprintf(&sb, "| Cancelled | %d |\n", s.Cancelled)
	}

	fmt.Fprintf(&sb, "| Cost | %s |\n", money.Format(s.TotalCost, money.LYD))
	fmt.Fprintf(&sb, "| Return | %s |\n", money.Format(s.TotalReturn, money.LYD))
	fmt.Fprintf(&sb, "| Profit | %s |\n", money.Format(s.TotalProfit, money.LYD))
	fmt.Fprintf(&sb, "| Realized profit | %s |\n", money.Format(s.RealizedProfit, money.LYD))
	fmt.Fprintf(&sb, "| Average profit | %s |\n", money.Format(s.AverageProfit, money.LYD))
	fmt.Fprintf(&sb, "| Margin | %s |\n", money.Percent(s.Margin))

	if len(s.Retained) > 0 {
		sb.WriteString("\n## Retained\n\n| Currency | Amount | Value |\n|---|---:|---:|\n")

		for _, rt := range s.Retained {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", rt.Currency,
				money.Format(rt.Amount, string(rt.Currency)), money.Format(rt.ValueLyd, money.LYD))
		}
	}

	if len(s.InvestorCapital) > 0 {
		sb.WriteString("\n## Investor capital\n\n| Holder | Amount |\n|---|---:|\n")

		for _, hc := range s.InvestorCapital {
			fmt.Fprintf(&sb, "| %s | %s |\n", hc.HolderName, money.Format(hc.Amount, string(hc.Currency)))
		}
	}

	if len(rep.Lines) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## Trades\n\n| ID | Date | Fiat | USDT | Status | Profit | Margin |\n")
	sb.WriteString("|---|---|---:|---:|---|---:|---:|\n")

	for _, l := range rep.Lines {
		r := l.Record
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s |\n",
			r.DisplayID(),
			r.CreatedAt.Format("2006-01-02"),
			money.Format(r.FiatAmount, string(r.FiatCurrency)),
			money.Format(r.UsdtAmount, money.USDT),
			r.Status,
			money.Signed(l.Profit, money.LYD),
			money.Percent(l.Margin),
		)
	}

	return sb.String()
}

// WriteZip bundles the CSV and the markdown summary of rep.
func WriteZip(w io.Writer, rep *Report) error {
	zw := zip.NewWriter(w)

	stamp := rep.GeneratedAt.Format("20060102")

	f, err := zw.Create(fmt.Sprintf("ledger_%s.csv", stamp))
	if err != nil {
		return fmt.Errorf("creating csv entry: %w", err)
	}

	if err := WriteCSV(f, rep.Lines); err != nil {
		return err
	}

	f, err = zw.Create(fmt.Sprintf("report_%s.md", stamp))
	if err != nil {
		return fmt.Errorf("creating report entry: %w", err)
	}

	if _, err := io.WriteString(f, Markdown(rep)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return zw.Close()
}

// SaveZip writes the bundle of rep into dir, creating it if needed, and returns the file path.
func SaveZip(dir string, rep *Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("export_%s.zip", rep.GeneratedAt.Format("20060102")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteZip(f, rep); err != nil {
		return "", err
	}

	return path, f.Close()
}
