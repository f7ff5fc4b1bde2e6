package trades

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
	enc "github.com/MrJamesThe3rd/arbitra/internal/encoding"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

var delimiters = []rune{';', ',', '\t'}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// Parser reads trade sheets and produces transaction params. It detects the delimiter and the
// profile by looking for a header row with every required column.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(data, delim)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, fmt.Errorf("no matching trade format found: expected columns for ledger or sheet")
}

func readRows(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps fields to their index in the row.
type colIndex map[field]int

// detectProfile scans rows for a header matching a known profile. Header names are compared
// case-insensitively.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		names := make(map[string]int, len(row))

		for i, cell := range row {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				names[name] = i
			}
		}

		for i := range profiles {
			if cols, ok := match(&profiles[i], names); ok {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func match(p *Profile, names map[string]int) (colIndex, bool) {
	for _, f := range required {
		if _, ok := names[p.Columns[f]]; !ok {
			return nil, false
		}
	}

	cols := make(colIndex, len(p.Columns))

	for f, name := range p.Columns {
		if idx, ok := names[name]; ok {
			cols[f] = idx
		}
	}

	return cols, true
}

// parseRows turns data rows into params. Rows without a fiat amount are skipped as blank or
// footer rows; any other malformed cell fails the whole import. firstRow is the 0-based index
// of rows[0] in the file.
func parseRows(cols colIndex, rows [][]string, firstRow int) ([]transaction.CreateParams, error) {
	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := firstRow + i + 1

		if cell(row, cols, fieldFiatAmount) == "" {
			continue
		}

		p, err := parseRow(cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params = append(params, p)
	}

	return params, nil
}

func parseRow(cols colIndex, row []string) (transaction.CreateParams, error) {
	var (
		p   transaction.CreateParams
		err error
	)

	amounts := []struct {
		f    field
		name string
		dst  *decimal.Decimal
	}{
		{fieldFiatAmount, "fiat amount", &p.FiatAmount},
		{fieldFiatRate, "fiat rate", &p.FiatRate},
		{fieldUsdtAmount, "usdt amount", &p.UsdtAmount},
		{fieldUsdtRate, "usdt rate", &p.UsdtRate},
	}
	for _, a := range amounts {
		if *a.dst, err = calc.ParseStrict(cell(row, cols, a.f)); err != nil {
			return p, fmt.Errorf("%s: %w", a.name, err)
		}
	}

	if s := cell(row, cols, fieldDate); s != "" {
		if p.CreatedAt, err = parseDate(s); err != nil {
			return p, err
		}
	}

	p.FiatCurrency = transaction.Currency(strings.ToUpper(cell(row, cols, fieldCurrency)))
	p.PaymentMethod = transaction.PaymentMethod(strings.ToLower(cell(row, cols, fieldPaymentMethod)))
	p.Notes = cell(row, cols, fieldNotes)

	if s := cell(row, cols, fieldPrivate); s != "" {
		if p.IsPrivate, err = strconv.ParseBool(s); err != nil {
			return p, fmt.Errorf("is_private: invalid value %q", s)
		}
	}

	var bankRate *decimal.Decimal

	if s := cell(row, cols, fieldBankSellRate); s != "" {
		d, err := calc.ParseStrict(s)
		if err != nil {
			return p, fmt.Errorf("bank sell rate: %w", err)
		}

		bankRate = &d
	}

	p.Settlement, err = transaction.ParseSettlement(
		calc.Mode(strings.ToLower(cell(row, cols, fieldSettlement))),
		bankRate,
		transaction.Currency(strings.ToUpper(cell(row, cols, fieldRetainedCurrency))),
	)
	if err != nil {
		return p, err
	}

	return p, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// cell returns the trimmed value of f in row, or "" when the column is absent.
func cell(row []string, cols colIndex, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
