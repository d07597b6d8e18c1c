package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-wordwrap"

	"github.com/opsdeck/opsdeck/internal/alerts"
	"github.com/opsdeck/opsdeck/internal/ui/styles"
)

// detailModel is the modal showing one alert's full description.
type detailModel struct {
	alert      alerts.Alert
	runbookURL string
	viewport   viewport.Model
	width      int
	height     int
}

func newDetailModel(alert alerts.Alert, width, height int) detailModel {
	d := detailModel{
		alert:      alert,
		runbookURL: extractRunbookURL(alert.Description),
	}
	d.SetSize(width, height)
	return d
}

// SetSize sizes the modal to roughly three quarters of the screen.
func (d *detailModel) SetSize(width, height int) {
	d.width = width * 3 / 4
	if d.width > 100 {
		d.width = 100
	}
	if d.width < 40 {
		d.width = 40
	}
	d.height = height * 3 / 4
	if d.height < 10 {
		d.height = 10
	}

	bodyWidth := d.width - 6
	bodyHeight := d.height - 8
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	d.viewport = viewport.New(bodyWidth, bodyHeight)
	d.viewport.SetContent(wordwrap.WrapString(d.alert.Description, uint(bodyWidth)))
}

func (d detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d detailModel) View() string {
	title := styles.DetailTitleStyle.Render(
		fmt.Sprintf("Alert %s: %s", d.alert.ID, d.alert.Message))

	created := "unknown"
	if d.alert.CreatedAt != nil {
		created = humanize.Time(*d.alert.CreatedAt)
	}
	meta := styles.DetailMetaStyle.Render(fmt.Sprintf(
		"Prio %s  |  Age %s  |  Created %s  |  Acked By %s",
		d.alert.Priority, d.alert.Age(time.Now()), created, d.alert.AckedBy))

	status := styles.StatusStyle(d.alert.Status).Bold(true).
		Render("Status: " + strings.ToUpper(d.alert.Status))

	hints := []string{"esc/q close", "↑/↓ scroll"}
	if d.runbookURL != "" {
		hints = append([]string{"o open runbook"}, hints...)
	}
	footer := styles.FooterHintStyle.Render(strings.Join(hints, "  •  "))

	sections := []string{title, meta, status, "", d.viewport.View(), "", footer}
	body := lipgloss.NewStyle().Width(d.width - 6).Render(strings.Join(sections, "\n"))
	return styles.DetailBorderStyle.Render(body)
}
