package app

import (
	"time"

	"github.com/opsdeck/opsdeck/internal/alerts"
)

// AlertsRefreshedMsg carries a fresh, normalized, display-ordered alert
// list from a refresh fetch.
type AlertsRefreshedMsg struct {
	Alerts    []alerts.Alert
	FetchedAt time.Time
}

// RefreshFailedMsg is sent when a refresh fetch fails. The store is
// left untouched.
type RefreshFailedMsg struct {
	Err error
}

// ActionResultMsg carries the remote outcome of an optimistic
// acknowledge or close back to the owner loop.
type ActionResultMsg struct {
	Action *alerts.Action
	Err    error
}

// DetailLoadedMsg carries the full alert record for the detail modal.
type DetailLoadedMsg struct {
	Alert alerts.Alert
}

// DetailFailedMsg is sent when a detail fetch fails.
type DetailFailedMsg struct {
	ID  string
	Err error
}

// RefreshTickMsg triggers the periodic refresh.
type RefreshTickMsg time.Time

// ToastExpiredMsg clears a toast after its display window.
type ToastExpiredMsg struct {
	Seq int
}

// OpenURLResultMsg reports a failed attempt to open a runbook URL in
// the browser.
type OpenURLResultMsg struct {
	URL string
	Err error
}
