package app

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opsdeck/opsdeck/internal/alerts"
	"github.com/opsdeck/opsdeck/internal/logger"
)

const toastDuration = 3 * time.Second

// Client is the remote API surface the app depends on. Satisfied by
// *jsm.Client; faked in tests.
type Client interface {
	ListOpenAlerts(ctx context.Context) ([]alerts.Alert, error)
	GetAlert(ctx context.Context, id string) (alerts.Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) error
	CloseAlert(ctx context.Context, id string) error
}

// refreshAlerts creates a command to fetch the open alert list.
func refreshAlerts(client Client) tea.Cmd {
	return func() tea.Msg {
		logger.Debug("refreshing open alerts")
		list, err := client.ListOpenAlerts(context.Background())
		if err != nil {
			logger.Error("failed to refresh open alerts", "error", err)
			return RefreshFailedMsg{Err: err}
		}
		logger.Info("refresh completed", "open_alerts", len(list))
		return AlertsRefreshedMsg{Alerts: list, FetchedAt: time.Now()}
	}
}

// runAction creates a command to perform the remote half of an
// optimistic acknowledge or close. The outcome is posted back to the
// owner loop, which confirms or rolls back.
func runAction(client Client, action *alerts.Action) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch action.Kind {
		case alerts.ActionClose:
			logger.Info("closing alert", "alert_id", action.AlertID)
			err = client.CloseAlert(ctx, action.AlertID)
		default:
			logger.Info("acknowledging alert", "alert_id", action.AlertID)
			err = client.AcknowledgeAlert(ctx, action.AlertID)
		}
		if err != nil {
			logger.Error("alert action failed",
				"action", action.Kind.String(),
				"alert_id", action.AlertID,
				"error", err)
		}
		return ActionResultMsg{Action: action, Err: err}
	}
}

// fetchDetail creates a command to fetch the full alert record for the
// detail modal.
func fetchDetail(client Client, id string) tea.Cmd {
	return func() tea.Msg {
		logger.Debug("fetching alert details", "alert_id", id)
		alert, err := client.GetAlert(context.Background(), id)
		if err != nil {
			logger.Error("failed to fetch alert details", "alert_id", id, "error", err)
			return DetailFailedMsg{ID: id, Err: err}
		}
		return DetailLoadedMsg{Alert: alert}
	}
}

// tickRefresh schedules the next periodic refresh.
func tickRefresh(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RefreshTickMsg(t)
	})
}

// expireToast schedules removal of the toast with the given sequence
// number.
func expireToast(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}

// openURL creates a command to open a URL with the platform opener.
func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		err := cmd.Start()
		if err != nil {
			logger.Error("failed to open URL", "url", url, "error", err)
		}
		return OpenURLResultMsg{URL: url, Err: err}
	}
}
