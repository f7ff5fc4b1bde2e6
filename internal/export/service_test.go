package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/arbitra/internal/export"
	"github.com/MrJamesThe3rd/arbitra/internal/importer/trades"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

var generatedAt = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleLines() []transaction.Line {
	bankRate := dec("7.3")

	records := []*transaction.Record{
		{
			ID:            uuid.New(),
			SequenceID:    1,
			FiatCurrency:  transaction.CurrencyEUR,
			FiatAmount:    dec("1000"),
			FiatRate:      dec("7.5"),
			UsdtAmount:    dec("1100"),
			UsdtRate:      dec("7"),
			PaymentMethod: transaction.PaymentCash,
			Settlement:    transaction.Standard(),
			Status:        transaction.StatusComplete,
			Notes:         "first; with separator",
			CreatedAt:     time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:            uuid.New(),
			SequenceID:    2,
			FiatCurrency:  transaction.CurrencyGBP,
			FiatAmount:    dec("500"),
			FiatRate:      dec("8.7"),
			UsdtAmount:    dec("610"),
			UsdtRate:      dec("7.1"),
			PaymentMethod: transaction.PaymentBank,
			Settlement:    transaction.Hybrid(&bankRate),
			Status:        transaction.StatusPlanned,
			IsPrivate:     true,
			HolderName:    "Nadia",
			CreatedAt:     time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC),
		},
	}

	lines := make([]transaction.Line, len(records))
	for i, r := range records {
		lines[i] = transaction.LineFor(r)
	}

	return lines
}

func TestService_Export(t *testing.T) {
	ctx := context.Background()
	filter := transaction.ListFilter{Period: transaction.PeriodThisMonth}

	type testCase struct {
		name      string
		setupMock func(m *export.MockReporter)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *export.MockReporter) {
				lines := sampleLines()
				m.EXPECT().Report(ctx, filter).Return(transaction.Summary{Count: 2}, lines, nil)
			},
		},
		{
			name: "ReportError",
			setupMock: func(m *export.MockReporter) {
				m.EXPECT().Report(ctx, filter).Return(transaction.Summary{}, nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reporter := export.NewMockReporter(ctrl)
			tt.setupMock(reporter)

			svc := export.NewService(reporter).WithClock(func() time.Time { return generatedAt })

			rep, err := svc.Export(ctx, filter)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 2, rep.Summary.Count)
			assert.Len(t, rep.Lines, 2)
			assert.Equal(t, generatedAt, rep.GeneratedAt)
			assert.Equal(t, filter, rep.Filter)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleLines()))

	rows := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, rows, 3)

	assert.True(t, strings.HasPrefix(rows[0], "created_at;fiat_currency;fiat_amount"))
	assert.Contains(t, rows[1], `"first; with separator"`)
	assert.Contains(t, rows[1], ";C1;complete;")
	assert.Contains(t, rows[1], ";7500.000;7700.000;200.000;")
	assert.Contains(t, rows[2], ";bank;hybrid;7.3;;true;")
	assert.Contains(t, rows[2], ";H2;planned;Nadia;")
}

func TestWriteCSV_ImportsBack(t *testing.T) {
	lines := sampleLines()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, lines))

	params, err := trades.NewParser().Parse(&buf)
	require.NoError(t, err)
	require.Len(t, params, len(lines))

	for i, p := range params {
		r := lines[i].Record

		assert.True(t, r.CreatedAt.Equal(p.CreatedAt))
		assert.Equal(t, r.FiatCurrency, p.FiatCurrency)
		assert.True(t, r.FiatAmount.Equal(p.FiatAmount))
		assert.True(t, r.UsdtRate.Equal(p.UsdtRate))
		assert.Equal(t, r.PaymentMethod, p.PaymentMethod)
		assert.Equal(t, r.Settlement.Mode(), p.Settlement.Mode())
		assert.Equal(t, r.IsPrivate, p.IsPrivate)
		assert.Equal(t, r.Notes, p.Notes)
		assert.True(t, lines[i].Profit.Equal(p.Line().Profit))
	}
}

func TestMarkdown(t *testing.T) {
	lines := sampleLines()
	rep := &export.Report{
		Filter: transaction.ListFilter{Period: transaction.PeriodThisMonth},
		Summary: transaction.Summary{
			Count:       2,
			Cancelled:   1,
			TotalCost:   dec("11850"),
			TotalProfit: dec("450"),
			Margin:      dec("0.038"),
			Retained: []transaction.RetainedTotal{
				{Currency: transaction.CurrencyUSDT, Amount: dec("20"), ValueLyd: dec("160")},
			},
			InvestorCapital: []transaction.HolderCapital{
				{HolderName: "Nadia", Currency: transaction.CurrencyUSDT, Amount: dec("20")},
			},
		},
		Lines:       lines,
		GeneratedAt: generatedAt,
	}

	md := export.Markdown(rep)

	assert.Contains(t, md, "# Ledger report")
	assert.Contains(t, md, "Generated 2024-03-15 09:30 for this month.")
	assert.Contains(t, md, "| Trades | 2 |")
	assert.Contains(t, md, "| Cancelled | 1 |")
	assert.Contains(t, md, "| Margin | 3.80% |")
	assert.Contains(t, md, "## Retained")
	assert.Contains(t, md, "| Nadia | 20.00 ₮ |")
	assert.Contains(t, md, "| C1 | 2024-03-10 | €1,000.00 | 1,100.00 ₮ | complete |")
	assert.Contains(t, md, "| H2 |")
}

func TestMarkdown_Empty(t *testing.T) {
	md := export.Markdown(&export.Report{GeneratedAt: generatedAt})

	assert.Contains(t, md, "| Trades | 0 |")
	assert.NotContains(t, md, "Cancelled")
	assert.NotContains(t, md, "## Trades")
	assert.NotContains(t, md, " for ")
}

func TestWriteZip(t *testing.T) {
	rep := &export.Report{Lines: sampleLines(), GeneratedAt: generatedAt}

	var buf bytes.Buffer
	require.NoError(t, export.WriteZip(&buf, rep))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "ledger_20240315.csv", zr.File[0].Name)
	assert.Equal(t, "report_20240315.md", zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)

	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "| Trades | 0 |")
}

func TestSaveZip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	rep := &export.Report{Lines: sampleLines(), GeneratedAt: generatedAt}

	path, err := export.SaveZip(dir, rep)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_20240315.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = zr.Close() })

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"ledger_20240315.csv", "report_20240315.md"}, names)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
