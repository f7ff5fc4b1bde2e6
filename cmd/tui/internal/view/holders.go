package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/arbitra/internal/holder"
)

type holdersState int

const (
	holdersStateBrowse holdersState = iota
	holdersStateAdd
	holdersStateRename
)

// HoldersModel manages the people who keep retained funds.
type HoldersModel struct {
	CommonModel
	holderService *holder.Service
	actor         string

	state   holdersState
	holders []*holder.Holder
	cursor  int
	input   textinput.Model

	loading bool
	status  string
}

func NewHoldersModel(svc *holder.Service, actor string) HoldersModel {
	ti := textinput.New()
	ti.Placeholder = "Name"
	ti.CharLimit = 80
	ti.Width = 40

	return HoldersModel{
		holderService: svc,
		actor:         actor,
		input:         ti,
		loading:       true,
	}
}

func (m HoldersModel) Title() string { return "Holders" }

func (m HoldersModel) ShortHelp() string {
	if m.state != holdersStateBrowse {
		return "Enter: save | Esc: cancel"
	}

	return "Esc: back | a: add | n: rename | i: toggle investor | d: delete"
}

func (m HoldersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m HoldersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case holdersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.holders = msg.holders
		m.cursor = min(m.cursor, max(0, len(m.holders)-1))

		return m, nil

	case holderActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.KeyMsg:
		if m.state == holdersStateBrowse {
			return m.updateBrowse(msg)
		}

		return m.updateInput(msg)
	}

	return m, nil
}

func (m HoldersModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
	case "a":
		m.state = holdersStateAdd
		m.input.SetValue("")
		m.input.Focus()

		return m, textinput.Blink
	case "n":
		if h := m.current(); h != nil {
			m.state = holdersStateRename
			m.input.SetValue(h.Name)
			m.input.Focus()

			return m, textinput.Blink
		}
	case "i":
		if h := m.current(); h != nil {
			return m, m.toggleInvestorCmd(h.ID, !h.IsInvestor)
		}
	case "d":
		if h := m.current(); h != nil {
			return m, m.deleteCmd(h.ID, h.Name)
		}
	}

	return m, nil
}

func (m HoldersModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = holdersStateBrowse
		m.input.Blur()

		return m, nil
	case tea.KeyEnter:
		name := m.input.Value()
		state := m.state
		m.state = holdersStateBrowse
		m.input.Blur()

		if state == holdersStateAdd {
			return m, m.createCmd(name)
		}

		if h := m.current(); h != nil {
			return m, m.renameCmd(h.ID, name)
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m HoldersModel) current() *holder.Holder {
	if m.cursor < 0 || m.cursor >= len(m.holders) {
		return nil
	}

	return m.holders[m.cursor]
}

func (m HoldersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading holders...")
	}

	var b strings.Builder
	b.WriteString("Holders\n\n")

	if len(m.holders) == 0 {
		b.WriteString(faintStyle.Render("No holders yet. Press a to add one.") + "\n")
	}

	for i, h := range m.holders {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		tag := ""
		if h.IsInvestor {
			tag = " " + activeStyle("[investor]")
		}

		fmt.Fprintf(&b, "%s %s%s\n", cursor, h.Name, tag)
	}

	switch m.state {
	case holdersStateAdd:
		b.WriteString("\nNew holder:\n" + m.input.View() + "\n")
	case holdersStateRename:
		b.WriteString("\nRename:\n" + m.input.View() + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + faintStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// Messages

type holdersLoadedMsg struct {
	holders []*holder.Holder
	err     error
}

type holderActionMsg struct {
	status string
	err    error
}

func (m HoldersModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		holders, err := m.holderService.List(ctx)

		return holdersLoadedMsg{holders: holders, err: err}
	}
}

func (m HoldersModel) createCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		h, err := m.holderService.Create(ctx, holder.CreateParams{Name: name, CreatedBy: m.actor})
		if err != nil {
			return holderActionMsg{err: err}
		}

		return holderActionMsg{status: fmt.Sprintf("Added %s.", h.Name)}
	}
}

func (m HoldersModel) renameCmd(id uuid.UUID, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		h, err := m.holderService.Rename(ctx, id, name)
		if err != nil {
			return holderActionMsg{err: err}
		}

		return holderActionMsg{status: fmt.Sprintf("Renamed to %s.", h.Name)}
	}
}

func (m HoldersModel) toggleInvestorCmd(id uuid.UUID, isInvestor bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.holderService.SetInvestor(ctx, id, isInvestor)

		return holderActionMsg{err: err}
	}
}

func (m HoldersModel) deleteCmd(id uuid.UUID, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.holderService.Delete(ctx, id); err != nil {
			return holderActionMsg{err: err}
		}

		return holderActionMsg{status: fmt.Sprintf("Deleted %s.", name)}
	}
}
