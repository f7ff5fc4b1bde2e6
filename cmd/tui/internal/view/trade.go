package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/arbitra/internal/calc"
	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type tradeState int

const (
	tradeStateLoading tradeState = iota
	tradeStateForm
	tradeStateResult
)

// tradeInput holds the raw form values. It lives behind a pointer so the form keeps writing to
// the same fields while the model is copied around by bubbletea.
type tradeInput struct {
	currency   string
	fiatAmount string
	fiatRate   string
	usdtAmount string
	usdtRate   string
	payment    string
	mode       string
	bankRate   string
	retained   string
	notes      string
	private    bool
	save       bool
}

func newTradeInput() *tradeInput {
	return &tradeInput{
		currency: string(transaction.CurrencyEUR),
		payment:  string(transaction.PaymentCash),
		mode:     string(calc.ModeStandard),
		retained: string(transaction.CurrencyUSDT),
		save:     true,
	}
}

// params turns the form into create params. Blank rates fall back to quotes.
func (in *tradeInput) params(quotes map[string]rates.Quote) (transaction.CreateParams, error) {
	var (
		p   transaction.CreateParams
		err error
	)

	p.FiatCurrency = transaction.Currency(in.currency)
	p.PaymentMethod = transaction.PaymentMethod(in.payment)
	p.Notes = strings.TrimSpace(in.notes)
	p.IsPrivate = in.private

	fields := []struct {
		name  string
		raw   string
		quote string
		dst   *decimal.Decimal
	}{
		{"fiat amount", in.fiatAmount, "", &p.FiatAmount},
		{"fiat rate", in.fiatRate, in.currency, &p.FiatRate},
		{"usdt amount", in.usdtAmount, "", &p.UsdtAmount},
		{"usdt rate", in.usdtRate, money.USDT, &p.UsdtRate},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.raw) == "" && f.quote != "" {
			*f.dst = quotes[f.quote].Rate
			continue
		}

		if *f.dst, err = calc.ParseStrict(f.raw); err != nil {
			return p, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	var bankRate *decimal.Decimal

	if strings.TrimSpace(in.bankRate) != "" {
		d, err := calc.ParseStrict(in.bankRate)
		if err != nil {
			return p, fmt.Errorf("bank sell rate: %w", err)
		}

		bankRate = &d
	}

	p.Settlement, err = transaction.ParseSettlement(calc.Mode(in.mode), bankRate, transaction.Currency(in.retained))
	if err != nil {
		return p, err
	}

	return p, nil
}

// TradeModel is the calculator. Figures update on every keystroke; finishing the form with
// "save" checked stores the trade.
type TradeModel struct {
	CommonModel
	txService   *transaction.Service
	rateService *rates.Service

	state  tradeState
	input  *tradeInput
	form   *huh.Form
	quotes map[string]rates.Quote

	saved *transaction.Record
	err   error
}

func NewTradeModel(txSvc *transaction.Service, rateSvc *rates.Service) TradeModel {
	return TradeModel{
		txService:   txSvc,
		rateService: rateSvc,
		input:       newTradeInput(),
	}
}

func (m TradeModel) Title() string { return "New Trade" }

func (m TradeModel) ShortHelp() string {
	if m.state == tradeStateResult {
		return "Esc: back | n: new trade"
	}

	return "Tab: next field | Esc: back"
}

func (m TradeModel) Init() tea.Cmd {
	return m.quotesCmd()
}

func (m TradeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case quotesLoadedMsg:
		m.quotes = msg.quotes
		m.form = m.buildForm()
		m.state = tradeStateForm

		return m, m.form.Init()

	case tradeSavedMsg:
		m.state = tradeStateResult
		m.saved = msg.record
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case tradeStateLoading:
			if msg.Type == tea.KeyEsc {
				return m, Back
			}
		case tradeStateResult:
			switch msg.String() {
			case "esc":
				return m, Back
			case "n":
				return m.reset()
			}

			return m, nil
		case tradeStateForm:
			if msg.Type == tea.KeyEsc {
				return m, Back
			}
		}
	}

	if m.state != tradeStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.input.save {
		return m.reset()
	}

	params, err := m.input.params(m.quotes)
	if err != nil {
		m.state = tradeStateResult
		m.err = err

		return m, nil
	}

	return m, m.saveCmd(params)
}

func (m TradeModel) reset() (tea.Model, tea.Cmd) {
	m.input = newTradeInput()
	m.form = m.buildForm()
	m.state = tradeStateForm
	m.saved = nil
	m.err = nil

	return m, m.form.Init()
}

func (m TradeModel) buildForm() *huh.Form {
	in := m.input

	number := func(s string) error {
		_, err := calc.ParseStrict(s)
		return err
	}

	rateHint := func(cur string) string {
		q, ok := m.quotes[cur]
		if !ok || q.Source == rates.SourceNone {
			return "no rate available"
		}

		return fmt.Sprintf("blank uses %s (%s)", q.Rate.String(), q.Source)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Fiat").
				Options(huh.NewOptions(string(transaction.CurrencyEUR), string(transaction.CurrencyGBP))...).
				Value(&in.currency),
			huh.NewInput().
				Title("Fiat amount").
				Validate(number).
				Value(&in.fiatAmount),
			huh.NewInput().
				Title("Fiat rate").
				DescriptionFunc(func() string { return rateHint(in.currency) }, &in.currency).
				Validate(number).
				Value(&in.fiatRate),
			huh.NewInput().
				Title("USDT amount").
				Validate(number).
				Value(&in.usdtAmount),
			huh.NewInput().
				Title("USDT rate").
				Description(rateHint(money.USDT)).
				Validate(number).
				Value(&in.usdtRate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Payment").
				Options(huh.NewOptions(string(transaction.PaymentCash), string(transaction.PaymentBank))...).
				Value(&in.payment),
			huh.NewSelect[string]().
				Title("Settlement").
				Options(huh.NewOptions(string(calc.ModeStandard), string(calc.ModeHybrid), string(calc.ModeRetained))...).
				Value(&in.mode),
			huh.NewInput().
				Title("Bank sell rate").
				Description("hybrid only, blank uses the USDT rate").
				Validate(number).
				Value(&in.bankRate),
			huh.NewSelect[string]().
				Title("Retained in").
				Description("retained only").
				Options(huh.NewOptions(string(transaction.CurrencyUSDT), string(transaction.CurrencyEUR), string(transaction.CurrencyGBP))...).
				Value(&in.retained),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Notes").
				Value(&in.notes),
			huh.NewConfirm().
				Title("Private").
				Value(&in.private),
			huh.NewConfirm().
				Title("Save trade?").
				Description("No clears the calculator").
				Value(&in.save),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m TradeModel) View() string {
	switch m.state {
	case tradeStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Fetching rates...")
	case tradeStateResult:
		return m.viewResult()
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, m.form.View(), panelStyle.Width(44).Render(m.viewFigures())),
	)
}

func (m TradeModel) viewFigures() string {
	p, err := m.input.params(m.quotes)
	if err != nil {
		return "Figures\n\n" + errorStyle.Render(err.Error())
	}

	line := p.Line()
	mt := line.Metrics

	rows := [][2]string{
		{"Cost", FormatLyd(mt.CostLyd)},
		{"USDT to cover", FormatAmount(mt.UsdtToCoverCost, transaction.CurrencyUSDT)},
		{"Surplus", FormatAmount(mt.SurplusUsdt, transaction.CurrencyUSDT)},
		{"Return", FormatLyd(mt.ReturnLyd)},
		{"Profit", money.Signed(line.Profit, money.LYD)},
		{"Margin", money.Percent(line.Margin)},
	}

	if p.Settlement.IsRetained() {
		rows = append(rows,
			[2]string{"Realized", money.Signed(mt.RealizedProfit, money.LYD)},
			[2]string{"Retained", FormatAmount(line.RetainedAmount, p.Settlement.RetainedCurrency())},
		)
	}

	var b strings.Builder
	b.WriteString("Figures\n\n")

	for _, r := range rows {
		fmt.Fprintf(&b, "%-14s %s\n", r[0], r[1])
	}

	if err := p.Validate(); err != nil {
		b.WriteString("\n" + faintStyle.Render(err.Error()))
	}

	return b.String()
}

func (m TradeModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(n: new trade, Esc: back)")
	}

	r := m.saved
	summary := fmt.Sprintf("Saved %s: %s for %s, profit %s",
		r.DisplayID(),
		FormatAmount(r.FiatAmount, r.FiatCurrency),
		FormatAmount(r.UsdtAmount, transaction.CurrencyUSDT),
		money.Signed(r.EffectiveProfit(), money.LYD),
	)

	return style.Render(successStyle.Render(summary) + "\n\n(n: new trade, Esc: back)")
}

// Messages

type quotesLoadedMsg struct {
	quotes map[string]rates.Quote
}

type tradeSavedMsg struct {
	record *transaction.Record
	err    error
}

func (m TradeModel) quotesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		quotes := make(map[string]rates.Quote, 3)
		for _, c := range []string{string(transaction.CurrencyEUR), string(transaction.CurrencyGBP), money.USDT} {
			quotes[c] = m.rateService.Quote(ctx, c)
		}

		return quotesLoadedMsg{quotes: quotes}
	}
}

func (m TradeModel) saveCmd(params transaction.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.txService.Create(ctx, params)

		return tradeSavedMsg{record: r, err: err}
	}
}
