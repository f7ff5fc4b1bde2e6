package main

import (
	"log/slog"
	"os"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/arbitra/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/arbitra/internal/audit"
	auditStore "github.com/MrJamesThe3rd/arbitra/internal/audit/store"
	"github.com/MrJamesThe3rd/arbitra/internal/config"
	"github.com/MrJamesThe3rd/arbitra/internal/database"
	"github.com/MrJamesThe3rd/arbitra/internal/export"
	"github.com/MrJamesThe3rd/arbitra/internal/holder"
	holderStore "github.com/MrJamesThe3rd/arbitra/internal/holder/store"
	"github.com/MrJamesThe3rd/arbitra/internal/importer"
	"github.com/MrJamesThe3rd/arbitra/internal/preferences"
	prefStore "github.com/MrJamesThe3rd/arbitra/internal/preferences/store"
	"github.com/MrJamesThe3rd/arbitra/internal/rates"
	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
	txStore "github.com/MrJamesThe3rd/arbitra/internal/transaction/store"
)

type model struct {
	txService     *transaction.Service
	holderService *holder.Service
	rateService   *rates.Service
	importService *importer.Service
	exportService *export.Service
	prefs         preferences.Store
	actor         string

	currentView View

	tradeView   view.TradeModel
	listView    view.ListModel
	reviewView  view.ReviewModel
	holdersView view.HoldersModel
	importView  view.ImportModel
	exportView  view.ExportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewTrade   View = 1
	ViewList    View = 2
	ViewReview  View = 3
	ViewHolders View = 4
	ViewImport  View = 5
	ViewExport  View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	defaults, err := rates.ParseDefaults(cfg.Rates.Defaults)
	if err != nil {
		slog.Error("failed to parse default rates", "error", err)
		os.Exit(1)
	}

	var primary, fallback rates.Provider
	if cfg.Rates.PrimaryURL != "" {
		primary = rates.NewHTTPProvider(cfg.Rates.PrimaryURL, cfg.Rates.Timeout)
	}

	if cfg.Rates.FallbackURL != "" {
		fallback = rates.NewHTTPProvider(cfg.Rates.FallbackURL, cfg.Rates.Timeout)
	}

	holderSvc := holder.NewService(holderStore.New(db))
	auditSvc := audit.NewService(auditStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), holderSvc, auditSvc)

	return model{
		txService:     txSvc,
		holderService: holderSvc,
		rateService:   rates.NewService(primary, fallback, defaults),
		importService: importer.NewService(txSvc),
		exportService: export.NewService(txSvc),
		prefs:         prefStore.New(db),
		actor:         currentUser(),
		currentView:   ViewMenu,
	}
}

// currentUser names the operator for saved filters and created holders.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}

	return "tui"
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTrade
				m.tradeView = view.NewTradeModel(m.txService, m.rateService)

				return m, m.tradeView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.txService, m.prefs, m.actor)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.txService, m.holderService)

				return m, m.reviewView.Init()
			case "4":
				m.currentView = ViewHolders
				m.holdersView = view.NewHoldersModel(m.holderService, m.actor)

				return m, m.holdersView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewTrade:
		var newModel tea.Model
		newModel, cmd = m.tradeView.Update(msg)
		m.tradeView = newModel.(view.TradeModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewHolders:
		var newModel tea.Model
		newModel, cmd = m.holdersView.Update(msg)
		m.holdersView = newModel.(view.HoldersModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Arbitra\n\n" +
				"1. New Trade\n" +
				"2. Ledger\n" +
				"3. Assign Holders\n" +
				"4. Holders\n" +
				"5. Import Trades\n" +
				"6. Export Ledger\n\n" +
				"q. Quit",
		)
	case ViewTrade:
		return m.tradeView.View()
	case ViewList:
		return m.listView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewHolders:
		return m.holdersView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
