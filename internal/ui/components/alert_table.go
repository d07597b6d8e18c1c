// Package components provides reusable Bubbletea components for the
// opsdeck UI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/opsdeck/opsdeck/internal/alerts"
	"github.com/opsdeck/opsdeck/internal/ui/styles"
)

const (
	prioColWidth    = 6
	statusColWidth  = 12
	ageColWidth     = 5
	ackedByColWidth = 18
	tagsColWidth    = 14
	minMessageWidth = 30
)

// AlertTable displays open alerts in a scrollable table.
type AlertTable struct {
	table           table.Model
	alerts          []alerts.Alert
	width           int
	height          int
	messageColWidth int
}

// NewAlertTable creates a new alert table component.
func NewAlertTable() *AlertTable {
	t := table.New(
		table.WithColumns(columns(minMessageWidth)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(styles.ColorSelectedFg).
		Background(styles.ColorSelectedBg).
		Bold(false)
	t.SetStyles(s)

	return &AlertTable{
		table:           t,
		messageColWidth: minMessageWidth,
	}
}

func columns(messageWidth int) []table.Column {
	return []table.Column{
		{Title: "Prio", Width: prioColWidth},
		{Title: "Status", Width: statusColWidth},
		{Title: "Age", Width: ageColWidth},
		{Title: "Acked By", Width: ackedByColWidth},
		{Title: "Tags", Width: tagsColWidth},
		{Title: "Message", Width: messageWidth},
	}
}

// SetAlerts replaces the table contents with a fresh store snapshot.
// The cursor stays on the same row index when possible.
func (a *AlertTable) SetAlerts(alertList []alerts.Alert) {
	a.alerts = alertList
	a.refreshRows()

	if cursor := a.table.Cursor(); cursor >= len(alertList) && len(alertList) > 0 {
		a.table.SetCursor(len(alertList) - 1)
	}
}

// refreshRows rebuilds the table rows with the current column widths.
func (a *AlertTable) refreshRows() {
	now := time.Now()
	rows := make([]table.Row, len(a.alerts))
	for i, alert := range a.alerts {
		rows[i] = table.Row{
			alert.Priority,
			alert.Status,
			alert.Age(now),
			truncate(alert.AckedBy, ackedByColWidth),
			truncate(alert.TagsDisplay(), tagsColWidth),
			truncate(alert.Message, a.messageColWidth),
		}
	}
	a.table.SetRows(rows)
}

// SetSize sets the dimensions of the table.
func (a *AlertTable) SetSize(width, height int) {
	a.width = width
	a.height = height

	tableHeight := height - 2
	if tableHeight < 5 {
		tableHeight = 5
	}
	a.table.SetHeight(tableHeight)

	// Message column fills whatever the fixed columns leave over.
	fixed := prioColWidth + statusColWidth + ageColWidth + ackedByColWidth + tagsColWidth + 12
	a.messageColWidth = width - fixed
	if a.messageColWidth < minMessageWidth {
		a.messageColWidth = minMessageWidth
	}
	a.table.SetColumns(columns(a.messageColWidth))

	if len(a.alerts) > 0 {
		a.refreshRows()
	}
}

// Update handles messages for the alert table.
func (a *AlertTable) Update(msg tea.Msg) (*AlertTable, tea.Cmd) {
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// View renders the alert table.
func (a *AlertTable) View() string {
	if len(a.alerts) == 0 {
		emptyMsg := styles.InfoStyle.Render("No open alerts")
		return styles.TableBorderStyle.Render(a.table.View() + "\n" + emptyMsg)
	}
	return styles.TableBorderStyle.Render(a.table.View())
}

// SelectedAlert returns a copy of the currently selected alert.
func (a *AlertTable) SelectedAlert() (alerts.Alert, bool) {
	idx := a.table.Cursor()
	if idx < 0 || idx >= len(a.alerts) {
		return alerts.Alert{}, false
	}
	return a.alerts[idx].Clone(), true
}

// SelectedIndex returns the index of the selected row.
func (a *AlertTable) SelectedIndex() int {
	return a.table.Cursor()
}

// Len returns the number of rows.
func (a *AlertTable) Len() int {
	return len(a.alerts)
}

// truncate shortens a cell value to the given display width, appending
// an ellipsis when it was cut.
func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
