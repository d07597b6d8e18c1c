// Package app contains the main Bubbletea model for opsdeck: the owner
// loop that holds the alert store, drives the refresh cycle, and
// reconciles optimistic acknowledge/close actions.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opsdeck/opsdeck/internal/alerts"
	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/logger"
	"github.com/opsdeck/opsdeck/internal/ui"
	"github.com/opsdeck/opsdeck/internal/ui/components"
	"github.com/opsdeck/opsdeck/internal/ui/styles"
)

// mode is the current interaction mode.
type mode int

const (
	modeList mode = iota
	modeDetail
	modeHelp
)

// toastLevel is the severity of the transient status message.
type toastLevel int

const (
	toastSuccess toastLevel = iota
	toastWarning
	toastError
)

// Model is the main Bubbletea application model. Its Update method is
// the single owner context: every store mutation happens here, while
// remote I/O runs in command goroutines that post result messages back.
type Model struct {
	cfg    *config.Config
	client Client

	store   *alerts.Store
	mutator *alerts.Mutator

	keys  ui.KeyMap
	table *components.AlertTable
	spin  spinner.Model

	width  int
	height int
	ready  bool

	mode   mode
	detail detailModel

	// Refresh cycle state. At most one fetch is in flight; a trigger
	// while one is outstanding is dropped.
	refreshing  bool
	lastRefresh time.Time

	toast      string
	toastLevel toastLevel
	toastSeq   int

	quitting bool
}

// New creates the application model. actor is the identity stamped on
// optimistic acknowledges, usually the configured API email.
func New(cfg *config.Config, client Client, actor string) *Model {
	store := alerts.NewStore()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.ColorAccent)

	return &Model{
		cfg:     cfg,
		client:  client,
		store:   store,
		mutator: alerts.NewMutator(store, actor),
		keys:    ui.DefaultKeyMap(),
		table:   components.NewAlertTable(),
		spin:    spin,
	}
}

// Init starts the first refresh and the periodic refresh timer.
func (m *Model) Init() tea.Cmd {
	logger.Info("auto-refresh enabled", "interval", m.cfg.UI.RefreshInterval.String())
	m.refreshing = true
	return tea.Batch(
		refreshAlerts(m.client),
		tickRefresh(m.cfg.UI.RefreshInterval),
		m.spin.Tick,
	)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.table.SetSize(msg.Width, msg.Height-6)
		if m.mode == modeDetail {
			m.detail.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case RefreshTickMsg:
		cmds := []tea.Cmd{tickRefresh(m.cfg.UI.RefreshInterval)}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, refreshAlerts(m.client))
		}
		return m, tea.Batch(cmds...)

	case AlertsRefreshedMsg:
		m.refreshing = false
		m.lastRefresh = msg.FetchedAt
		m.store.Replace(msg.Alerts)
		m.table.SetAlerts(m.store.Snapshot())
		return m, nil

	case RefreshFailedMsg:
		// Last good store state persists; the timer keeps running.
		m.refreshing = false
		return m, m.showToast(msg.Err.Error(), toastError)

	case ActionResultMsg:
		return m.handleActionResult(msg)

	case DetailLoadedMsg:
		m.mode = modeDetail
		m.detail = newDetailModel(msg.Alert, m.width, m.height)
		return m, nil

	case DetailFailedMsg:
		return m, m.showToast(msg.Err.Error(), toastError)

	case OpenURLResultMsg:
		if msg.Err != nil {
			return m, m.showToast(fmt.Sprintf("could not open %s", msg.URL), toastError)
		}
		return m, nil

	case ToastExpiredMsg:
		if msg.Seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleActionResult confirms or rolls back an optimistic mutation once
// the remote call resolves.
func (m *Model) handleActionResult(msg ActionResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.mutator.Rollback(msg.Action)
		m.table.SetAlerts(m.store.Snapshot())
		return m, m.showToast(msg.Err.Error(), toastError)
	}

	m.mutator.Confirm(msg.Action)
	verb := "Acknowledged"
	if msg.Action.Kind == alerts.ActionClose {
		verb = "Closed"
	}
	return m, m.showToast(fmt.Sprintf("%s alert %s", verb, msg.Action.AlertID), toastSuccess)
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeDetail:
		return m.handleDetailKeys(msg)
	case modeHelp:
		if key.Matches(msg, m.keys.CloseDialog) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.mode = modeList
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, refreshAlerts(m.client)

	case key.Matches(msg, m.keys.Acknowledge):
		return m.beginAction(alerts.ActionAcknowledge)

	case key.Matches(msg, m.keys.Close):
		return m.beginAction(alerts.ActionClose)

	case key.Matches(msg, m.keys.View):
		alert, ok := m.table.SelectedAlert()
		if !ok {
			return m, m.showToast("Select an alert first", toastWarning)
		}
		return m, fetchDetail(m.client, alert.ID)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CloseDialog) || key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.View):
		m.mode = modeList
		return m, nil

	case key.Matches(msg, m.keys.OpenRunbook):
		if m.detail.runbookURL != "" {
			return m, openURL(m.detail.runbookURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// beginAction applies the optimistic half of an acknowledge or close on
// the owner context, then hands the remote half to a command goroutine.
func (m *Model) beginAction(kind alerts.ActionKind) (tea.Model, tea.Cmd) {
	selected, ok := m.table.SelectedAlert()
	if !ok {
		return m, m.showToast("Select an alert first", toastWarning)
	}

	var (
		action *alerts.Action
		err    error
	)
	if kind == alerts.ActionClose {
		action, err = m.mutator.BeginClose(selected.ID)
	} else {
		action, err = m.mutator.BeginAcknowledge(selected.ID)
	}
	if err != nil {
		logger.Warn("action precondition failed", "alert_id", selected.ID, "error", err)
		return m, m.showToast("Could not resolve selected alert", toastWarning)
	}

	m.table.SetAlerts(m.store.Snapshot())
	return m, runAction(m.client, action)
}

// showToast installs a transient status message and schedules its
// expiry. A newer toast supersedes the pending expiry of the old one.
func (m *Model) showToast(text string, level toastLevel) tea.Cmd {
	m.toast = text
	m.toastLevel = level
	m.toastSeq++
	return expireToast(m.toastSeq)
}

// View renders the application.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case modeDetail:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.detail.View())
	case modeHelp:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpView())
	}

	title := styles.StatusTitleStyle.Render("opsdeck — open alerts")
	sections := []string{
		title,
		m.table.View(),
		m.statusBarView(),
		m.footerView(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) statusBarView() string {
	count := styles.StatusAlertCountStyle.Render(fmt.Sprintf("Open alerts: %d", m.table.Len()))

	refreshed := "never"
	if !m.lastRefresh.IsZero() {
		refreshed = m.lastRefresh.Format("15:04:05")
	}
	status := styles.StatusTimeStyle.Render("refreshed " + refreshed)
	if m.refreshing {
		status = m.spin.View() + " refreshing"
	}

	parts := []string{count, status}
	if warn, errCount := logger.Counts(); warn > 0 || errCount > 0 {
		parts = append(parts, styles.ToastWarningStyle.Render(
			fmt.Sprintf("log: %dW/%dE", warn, errCount)))
	}
	if m.toast != "" {
		parts = append(parts, m.toastView())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithSeparator(parts)...)
}

func (m *Model) toastView() string {
	switch m.toastLevel {
	case toastError:
		return styles.ToastErrorStyle.Render(m.toast)
	case toastWarning:
		return styles.ToastWarningStyle.Render(m.toast)
	default:
		return styles.ToastSuccessStyle.Render(m.toast)
	}
}

func (m *Model) footerView() string {
	hints := ""
	for i, binding := range m.keys.ShortHelp() {
		if i > 0 {
			hints += "  "
		}
		hints += binding.Help().Key + " " + binding.Help().Desc
	}
	return styles.FooterHintStyle.Render(hints)
}

func (m *Model) helpView() string {
	lines := []string{styles.DetailTitleStyle.Render("Keyboard bindings"), ""}
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			lines = append(lines, fmt.Sprintf("  %-12s %s", binding.Help().Key, binding.Help().Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, styles.FooterHintStyle.Render("esc to close"))
	return styles.DetailBorderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func joinWithSeparator(parts []string) []string {
	sep := styles.StatusTimeStyle.Render("  │  ")
	out := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, part)
	}
	return out
}

// Cleanup releases resources on exit.
func (m *Model) Cleanup() {
	logger.Info("opsdeck exiting")
}
