package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/alerts"
	"github.com/opsdeck/opsdeck/internal/config"
)

// fakeClient implements Client for driving the update loop in tests.
type fakeClient struct {
	listCalls int
	listErr   error
	alerts    []alerts.Alert

	ackErr   error
	closeErr error

	detail    alerts.Alert
	detailErr error
}

func (f *fakeClient) ListOpenAlerts(ctx context.Context) ([]alerts.Alert, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.alerts, nil
}

func (f *fakeClient) GetAlert(ctx context.Context, id string) (alerts.Alert, error) {
	if f.detailErr != nil {
		return alerts.Alert{}, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeClient) AcknowledgeAlert(ctx context.Context, id string) error {
	return f.ackErr
}

func (f *fakeClient) CloseAlert(ctx context.Context, id string) error {
	return f.closeErr
}

func testConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{CloudID: "c", BearerToken: "t", PageSize: 100},
		UI:  config.UIConfig{RefreshInterval: 30 * time.Second},
		Log: config.LogConfig{Level: "info"},
	}
}

func testAlerts(ids ...string) []alerts.Alert {
	out := make([]alerts.Alert, 0, len(ids))
	for _, id := range ids {
		out = append(out, alerts.Alert{ID: id, Status: "open", Priority: "P3", AckedBy: "-"})
	}
	return out
}

func newTestModel(client *fakeClient) *Model {
	m := New(testConfig(), client, "jane")
	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return model.(*Model)
}

// update feeds one message and discards any resulting command.
func update(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Msg) {
	t.Helper()
	model, _ := m.Update(msg)
	return model.(*Model), nil
}

// updateRun feeds one message and runs the resulting command
// synchronously, returning the message it produces. Only for commands
// that resolve immediately (remote calls against the fake client);
// timer commands would block.
func updateRun(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Msg) {
	t.Helper()
	model, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	return model.(*Model), cmd()
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestRefreshInstallsAlerts(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)

	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a", "b"), FetchedAt: time.Now()})

	assert.False(t, m.refreshing)
	snap := m.store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].ID)
}

func TestRefreshFailureLeavesStoreUnchanged(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a", "b"), FetchedAt: time.Now()})

	before := m.store.Snapshot()
	m, _ = update(t, m, RefreshFailedMsg{Err: errors.New("boom")})

	assert.Equal(t, before, m.store.Snapshot())
	assert.Equal(t, "boom", m.toast)
	assert.Equal(t, toastError, m.toastLevel)
}

func TestManualRefreshCoalesces(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)
	m.refreshing = true

	_, cmd := m.Update(keyRune('r'))
	assert.Nil(t, cmd, "a refresh trigger while one is outstanding is dropped")
}

func TestAcknowledgeOptimisticThenRollback(t *testing.T) {
	client := &fakeClient{ackErr: errors.New("remote says no")}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a", "b", "c"), FetchedAt: time.Now()})

	// Move the cursor to index 2 and acknowledge.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, result := updateRun(t, m, keyRune('a'))

	// Optimistic state is visible before the remote result lands.
	got, ok := m.store.Get("c")
	require.True(t, ok)
	assert.Equal(t, "acknowledged", got.Status)
	assert.Equal(t, "jane", got.AckedBy)
	assert.Equal(t, 2, m.store.IndexOf("c"))

	// The command already ran the failing remote call.
	actionMsg, ok := result.(ActionResultMsg)
	require.True(t, ok)
	require.Error(t, actionMsg.Err)

	m, _ = update(t, m, actionMsg)
	got, ok = m.store.Get("c")
	require.True(t, ok)
	assert.Equal(t, "open", got.Status)
	assert.Equal(t, "-", got.AckedBy)
	assert.Equal(t, 2, m.store.IndexOf("c"))
	assert.Equal(t, toastError, m.toastLevel)
}

func TestAcknowledgeConfirmKeepsOptimisticValue(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a"), FetchedAt: time.Now()})

	m, result := updateRun(t, m, keyRune('a'))
	actionMsg, ok := result.(ActionResultMsg)
	require.True(t, ok)
	require.NoError(t, actionMsg.Err)

	m, _ = update(t, m, actionMsg)
	got, _ := m.store.Get("a")
	assert.Equal(t, "acknowledged", got.Status)
	assert.Equal(t, toastSuccess, m.toastLevel)
}

func TestCloseOptimisticThenRollback(t *testing.T) {
	client := &fakeClient{closeErr: errors.New("remote says no")}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a", "b", "c"), FetchedAt: time.Now()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, result := updateRun(t, m, keyRune('c'))

	_, ok := m.store.Get("b")
	assert.False(t, ok, "optimistic close removes the alert")

	actionMsg := result.(ActionResultMsg)
	require.Error(t, actionMsg.Err)

	m, _ = update(t, m, actionMsg)
	got, ok := m.store.Get("b")
	require.True(t, ok)
	assert.Equal(t, "open", got.Status)
	assert.Equal(t, 1, m.store.IndexOf("b"), "rollback reinserts at the original index")
}

func TestCloseConfirmedStaysRemoved(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a", "b"), FetchedAt: time.Now()})

	m, result := updateRun(t, m, keyRune('c'))
	actionMsg := result.(ActionResultMsg)
	require.NoError(t, actionMsg.Err)

	m, _ = update(t, m, actionMsg)
	assert.Equal(t, 1, m.store.Len())
	_, ok := m.store.Get("a")
	assert.False(t, ok)
}

func TestActionWithEmptyTableWarns(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(client)

	m, _ = update(t, m, keyRune('a'))
	assert.Equal(t, toastWarning, m.toastLevel)
	assert.NotEmpty(t, m.toast)
}

func TestDetailOpensModal(t *testing.T) {
	client := &fakeClient{detail: alerts.Alert{
		ID: "a", Status: "open", Message: "disk full",
		Description: "Runbook: https://example.com/runbook",
	}}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a"), FetchedAt: time.Now()})

	m, result := updateRun(t, m, keyRune('v'))
	loaded, ok := result.(DetailLoadedMsg)
	require.True(t, ok)

	m, _ = update(t, m, loaded)
	assert.Equal(t, modeDetail, m.mode)
	assert.Equal(t, "https://example.com/runbook", m.detail.runbookURL)

	// Escape returns to the list without touching the store.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 1, m.store.Len())
}

func TestDetailFailureLeavesStoreAlone(t *testing.T) {
	client := &fakeClient{detailErr: errors.New("bad shape")}
	m := newTestModel(client)
	m, _ = update(t, m, AlertsRefreshedMsg{Alerts: testAlerts("a"), FetchedAt: time.Now()})

	m, result := updateRun(t, m, keyRune('v'))
	failed, ok := result.(DetailFailedMsg)
	require.True(t, ok)

	m, _ = update(t, m, failed)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, toastError, m.toastLevel)
	assert.Equal(t, 1, m.store.Len())
}
