package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/arbitra/internal/importer"
	"github.com/MrJamesThe3rd/arbitra/internal/money"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateParsing
	importStatePreview
	importStateImporting
	importStateResult
)

// ImportModel loads a trade sheet, shows what it would create, and stores it on confirmation.
type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string

	preview     []transaction.Line
	previewList list.Model

	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".tsv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Trades" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import all | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			if msg.Type == tea.KeyEnter {
				m.state = importStateImporting
				m.status = fmt.Sprintf("Importing %d trades...", len(m.preview))

				return m, m.importCmd(m.path, false)
			}

			var cmd tea.Cmd
			m.previewList, cmd = m.previewList.Update(msg)

			return m, cmd
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			if msg.result != nil && msg.result.Created > 0 {
				m.status += fmt.Sprintf(" (%d trades were stored before the failure)", msg.result.Created)
			}

			return m, nil
		}

		if msg.dryRun {
			m.preview = msg.result.Lines
			m.state = importStatePreview
			m.previewList = newPreviewList(m.preview)

			return m, nil
		}

		m.state = importStateResult
		m.err = nil
		m.status = fmt.Sprintf("Imported %d trades.", msg.result.Created)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateParsing
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.importCmd(path, true)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.preview = nil
		m.err = nil
		m.status = ""

		return m, nil
	case importStateParsing, importStateImporting:
		return m, nil
	}

	return m, Back
}

func newPreviewList(lines []transaction.Line) list.Model {
	items := make([]list.Item, len(lines))
	for i, l := range lines {
		items[i] = previewItem{line: l, index: i}
	}

	l := list.New(items, previewDelegate{}, 90, 20)
	l.Title = fmt.Sprintf("%d trades ready to import", len(lines))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a trade sheet to import:\n\n%s", m.filePicker.View()),
		)
	case importStateParsing, importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.previewList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type importResultMsg struct {
	result *importer.Result
	dryRun bool
	err    error
}

func (m ImportModel) importCmd(path string, dryRun bool) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importService.Import(ctx, f, dryRun)

		return importResultMsg{result: result, dryRun: dryRun, err: err}
	}
}

// Preview list item

type previewItem struct {
	line  transaction.Line
	index int
}

func (i previewItem) Title() string       { return "" }
func (i previewItem) Description() string { return "" }
func (i previewItem) FilterValue() string { return "" }

// Preview list delegate

type previewDelegate struct{}

func (d previewDelegate) Height() int                             { return 2 }
func (d previewDelegate) Spacing() int                            { return 0 }
func (d previewDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d previewDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(previewItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	r := item.line.Record

	line1 := fmt.Sprintf("%s%3d  %s  %s → %s  %s",
		cursor, item.index+1,
		FormatDate(r.CreatedAt),
		FormatAmount(r.FiatAmount, r.FiatCurrency),
		FormatAmount(r.UsdtAmount, transaction.CurrencyUSDT),
		r.Settlement.Mode(),
	)

	line2 := fmt.Sprintf("       cost %s  profit %s  margin %s",
		FormatLyd(item.line.Metrics.CostLyd),
		money.Signed(item.line.Profit, money.LYD),
		money.Percent(item.line.Margin),
	)

	fmt.Fprintf(w, "%s\n%s", line1, faintStyle.Render(line2))
}
