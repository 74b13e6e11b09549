package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/funil/internal/dashboard"
	"github.com/thenoetrevino/funil/internal/quickaction"
)

// BoardLoadedMsg reports the end of a pipeline load
type BoardLoadedMsg struct {
	Err error
}

// NotificationMsg means the notification center changed
type NotificationMsg struct{}

// DashboardMsg carries a dashboard fetch
type DashboardMsg struct {
	Dashboard dashboard.Dashboard
}

// QuickActionMsg reports a finished quick action
type QuickActionMsg struct {
	Kind quickaction.Kind
	Err  error
}

// tickMsg drives notification expiry
type tickMsg time.Time

// loadBoard fetches the pipeline in the background
func (m *Model) loadBoard() tea.Cmd {
	m.loading = true
	board, ctx := m.Board, m.Ctx
	return func() tea.Msg {
		_, err := board.Load(ctx)
		return BoardLoadedMsg{Err: err}
	}
}

// listenNotifications waits for the next notification ping
func (m *Model) listenNotifications() tea.Cmd {
	ch := m.notifyCh
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return NotificationMsg{}
	}
}

// listenDashboard waits for the next dashboard fetch
func (m *Model) listenDashboard() tea.Cmd {
	if m.dashListening {
		return nil
	}
	m.dashListening = true
	ch, done := m.dashCh, m.Ctx.Done()
	return func() tea.Msg {
		select {
		case d := <-ch:
			return DashboardMsg{Dashboard: d}
		case <-done:
			return nil
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
