package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

// ReviewModel walks through active retained trades that have no holder yet. Such trades
// cannot complete, so the queue is the place to settle who keeps the funds.
type ReviewModel struct {
	CommonModel
	txService     *transaction.Service
	holderService *holder.Service

	queue     []*transaction.Record
	currentTx *transaction.Record
	holders   []*holder.Holder
	cursor    int

	loading    bool
	status     string
	totalCount int
}

func NewReviewModel(txSvc *transaction.Service, holderSvc *holder.Service) ReviewModel {
	return ReviewModel{
		txService:     txSvc,
		holderService: holderSvc,
		loading:       true,
	}
}

func (m ReviewModel) Title() string { return "Assign Holders" }

func (m ReviewModel) ShortHelp() string {
	return "Esc: back | ↑/↓: holder | Enter: assign | s: skip"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.loadQueueCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.holders)-1 {
				m.cursor++
			}
		case "s":
			m.nextTx()
		case "enter":
			if m.currentTx != nil && m.cursor < len(m.holders) {
				return m, m.assignCmd(m.holders[m.cursor])
			}
		}

	case loadQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.queue = msg.records
		m.holders = msg.holders
		m.totalCount = len(m.queue)
		m.nextTx()

	case assignResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = ""
		m.nextTx()
	}

	return m, nil
}

func (m *ReviewModel) nextTx() {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done!"

		return
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
}

func (m ReviewModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading retained trades...")
	}

	if m.currentTx == nil {
		if m.totalCount == 0 {
			return style.Render("Every retained trade has a holder.\n\n(Esc to back)")
		}

		return style.Render(m.status + "\n\n(Esc to back)")
	}

	if len(m.holders) == 0 {
		return style.Render("No holders exist yet. Add one from the Holders screen first.\n\n(Esc to back)")
	}

	r := m.currentTx

	var b strings.Builder
	fmt.Fprintf(&b, "Retained trade (%d remaining)\n\n", len(m.queue)+1)
	fmt.Fprintf(&b, "ID:       %s\n", r.DisplayID())
	fmt.Fprintf(&b, "Date:     %s\n", FormatDate(r.CreatedAt))
	fmt.Fprintf(&b, "Fiat:     %s\n", FormatAmount(r.FiatAmount, r.FiatCurrency))
	fmt.Fprintf(&b, "Retained: %s\n", FormatAmount(r.RetainedAmount(), r.Settlement.RetainedCurrency()))
	fmt.Fprintf(&b, "Value:    %s\n", money.Signed(r.EffectiveProfit(), money.LYD))
	fmt.Fprintf(&b, "Status:   %s %s\n\n", label(string(r.Status)), FormatSteps(r.Steps))
	b.WriteString("Held by:\n")

	for i, h := range m.holders {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, h.Name)
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status))
	}

	return style.Render(b.String())
}

// Messages

type loadQueueMsg struct {
	records []*transaction.Record
	holders []*holder.Holder
	err     error
}

type assignResultMsg struct {
	err error
}

func (m ReviewModel) loadQueueCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.txService.List(ctx, transaction.ListFilter{Status: transaction.StatusActive})
		if err != nil {
			return loadQueueMsg{err: err}
		}

		holders, err := m.holderService.List(ctx)
		if err != nil {
			return loadQueueMsg{err: err}
		}

		return loadQueueMsg{records: needsHolder(records), holders: holders}
	}
}

func needsHolder(records []*transaction.Record) []*transaction.Record {
	var queue []*transaction.Record

	for _, r := range records {
		if r.RequiresHolder() {
			queue = append(queue, r)
		}
	}

	return queue
}

func (m ReviewModel) assignCmd(h *holder.Holder) tea.Cmd {
	id := m.currentTx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.AttachHolder(ctx, id, h.ID)

		return assignResultMsg{err: err}
	}
}
