package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/preferences"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStatePeriod
	listStateEdit
)

var (
	visibilityCycle = []transaction.Visibility{transaction.VisibilityAll, transaction.VisibilityPublic, transaction.VisibilityPrivate}
	channelCycle    = []transaction.ChannelFilter{transaction.ChannelAll, transaction.ChannelOnlyCash, transaction.ChannelOnlyBank, transaction.ChannelOnlyHybrid}
	statusCycle     = []transaction.StatusFilter{transaction.StatusAll, transaction.StatusActive, transaction.StatusOnlyComplete}
	overrideCycle   = []transaction.Status{transaction.StatusPlanned, transaction.StatusInProgress, transaction.StatusComplete}
)

// ListModel is the ledger: every trade matching the saved filter, with the running summary.
type ListModel struct {
	CommonModel
	txService *transaction.Service
	prefs     preferences.Store
	owner     string

	state  listState
	table  table.Model
	lines  []transaction.Line
	sum    transaction.Summary
	form   *huh.Form
	picker PeriodPicker

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service, prefs preferences.Store, owner string) ListModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 10},
		{Title: "Fiat", Width: 12},
		{Title: "USDT", Width: 12},
		{Title: "Mode", Width: 9},
		{Title: "Steps", Width: 9},
		{Title: "Status", Width: 11},
		{Title: "Profit", Width: 16},
		{Title: "Margin", Width: 8},
		{Title: "Holder", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService: txSvc,
		prefs:     prefs,
		owner:     owner,
		table:     t,
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Ledger" }
func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStatePeriod:
		return "Enter: select | Esc: back"
	}

	return "Esc: back | 1/2/3: steps | m: status | x: cancel | e: edit | v/c/s/p: filters | r: refresh"
}

// Init loads the saved filter first; the ledger follows once it arrives.
func (m ListModel) Init() tea.Cmd {
	return m.loadFilterCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case filterLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load saved filter: %v", msg.err)
		}

		m.filter = msg.filter

		return m, m.loadCmd()

	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.lines = msg.lines
		m.sum = msg.summary
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case PeriodSelectedMsg:
		m.filter.Period = msg.Period
		m.filter.StartDate = msg.Start
		m.filter.EndDate = msg.End
		m.state = listStateBrowse
		m.table.Focus()

		return m, m.filterChangedCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(5, msg.Height-14))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStatePeriod:
		return m.updatePeriod(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "v":
			m.filter.Visibility = next(visibilityCycle, m.filter.Visibility)
			return m, m.filterChangedCmd()
		case "c":
			m.filter.Channel = next(channelCycle, m.filter.Channel)
			return m, m.filterChangedCmd()
		case "s":
			m.filter.Status = next(statusCycle, m.filter.Status)
			return m, m.filterChangedCmd()
		case "p":
			m.picker = NewPeriodPicker(m.filter.Period)
			m.state = listStatePeriod
			m.table.Blur()

			return m, m.picker.Init()
		case "1", "2", "3":
			return m, m.toggleStepCmd(keyMsg.String())
		case "m":
			return m, m.cycleStatusCmd()
		case "x":
			return m, m.cancelCmd()
		case "e":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
		m.state = listStateBrowse
		m.table.Focus()

		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	line, ok := m.selected()
	if !ok {
		return m, nil
	}

	notes := line.Record.Notes
	private := line.Record.IsPrivate

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("notes").
				Title("Notes").
				Value(&notes),

			huh.NewConfirm().
				Key("private").
				Title("Private").
				Description("Private trades are hidden from shared previews").
				Value(&private),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if m.state == listStatePeriod {
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	}

	header := fmt.Sprintf(
		"[v] Visibility: %s | [c] Channel: %s | [s] Status: %s | [p] Period: %s",
		activeStyle(label(string(m.filter.Visibility))),
		activeStyle(label(string(m.filter.Channel))),
		activeStyle(label(string(m.filter.Status))),
		activeStyle(m.filter.Period.String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.viewSummary(),
	)

	if m.state == listStateEdit && m.form != nil {
		title := "Edit Trade"
		if line, ok := m.selected(); ok {
			title = "Edit " + line.Record.DisplayID()
		}

		panel := panelStyle.Width(48).Render(title + "\n\n" + m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) viewSummary() string {
	parts := []string{
		fmt.Sprintf("%d trades", m.sum.Count),
		"cost " + FormatLyd(m.sum.TotalCost),
		"profit " + money.Signed(m.sum.TotalProfit, money.LYD),
		"realized " + money.Signed(m.sum.RealizedProfit, money.LYD),
		"margin " + money.Percent(m.sum.Margin),
	}

	if m.sum.Cancelled > 0 {
		parts = append(parts, fmt.Sprintf("%d cancelled", m.sum.Cancelled))
	}

	for _, r := range m.sum.Retained {
		parts = append(parts, "retained "+FormatAmount(r.Amount, r.Currency))
	}

	return lipgloss.NewStyle().PaddingTop(1).Render(strings.Join(parts, " · "))
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.lines))

	for _, l := range m.lines {
		r := l.Record

		profit := money.Signed(l.Profit, money.LYD)
		if r.Profit.IsOverridden() {
			profit += "*"
		}

		rows = append(rows, table.Row{
			r.DisplayID(),
			FormatDate(r.CreatedAt),
			FormatAmount(r.FiatAmount, r.FiatCurrency),
			FormatAmount(r.UsdtAmount, transaction.CurrencyUSDT),
			string(r.Settlement.Mode()),
			FormatSteps(r.Steps),
			label(string(r.Status)),
			profit,
			money.Percent(l.Margin),
			r.HolderName,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m ListModel) selected() (transaction.Line, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return transaction.Line{}, false
	}

	return m.lines[idx], true
}

// next returns the value after cur in cycle, wrapping around. Unknown values restart the cycle.
func next[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}

	if len(cycle) > 1 {
		return cycle[1]
	}

	return cycle[0]
}

// label turns a snake_case enum into a display label. Empty means "all".
func label(s string) string {
	if s == "" {
		return "All"
	}

	s = strings.ReplaceAll(s, "_", " ")

	return strings.ToUpper(s[:1]) + s[1:]
}

// Messages

type filterLoadedMsg struct {
	filter transaction.ListFilter
	err    error
}

type loadListMsg struct {
	summary transaction.Summary
	lines   []transaction.Line
	err     error
}

type listSaveMsg struct {
	err error
}

func (m ListModel) loadFilterCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		f, err := preferences.LoadFilter(ctx, m.prefs, m.owner)

		return filterLoadedMsg{filter: f, err: err}
	}
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, lines, err := m.txService.Report(ctx, filter)

		return loadListMsg{summary: summary, lines: lines, err: err}
	}
}

// filterChangedCmd saves the filter and reloads the ledger. A failed save is reported but the
// ledger still follows the new filter.
func (m ListModel) filterChangedCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return listSaveMsg{err: preferences.SaveFilter(ctx, m.prefs, m.owner, filter)}
	}
}

func (m ListModel) toggleStepCmd(key string) tea.Cmd {
	line, ok := m.selected()
	if !ok {
		return nil
	}

	step := map[string]transaction.Step{
		"1": transaction.StepFiatAcquired,
		"2": transaction.StepUsdtSold,
		"3": transaction.StepFiatPaid,
	}[key]
	done := !line.Record.Steps.Get(step)
	id := line.Record.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.SetStep(ctx, id, step, done)

		return listSaveMsg{err: err}
	}
}

func (m ListModel) cycleStatusCmd() tea.Cmd {
	line, ok := m.selected()
	if !ok {
		return nil
	}

	status := next(overrideCycle, line.Record.Status)
	id := line.Record.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.SetStatus(ctx, id, status)

		return listSaveMsg{err: err}
	}
}

func (m ListModel) cancelCmd() tea.Cmd {
	line, ok := m.selected()
	if !ok {
		return nil
	}

	id := line.Record.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Cancel(ctx, id)

		return listSaveMsg{err: err}
	}
}

func (m ListModel) saveCmd() tea.Cmd {
	line, ok := m.selected()
	if !ok {
		return nil
	}

	id := line.Record.ID
	notes := m.form.GetString("notes")
	private := m.form.GetBool("private")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.Update(ctx, id, transaction.UpdateParams{
			Notes:     &notes,
			IsPrivate: &private,
		})

		return listSaveMsg{err: err}
	}
}
