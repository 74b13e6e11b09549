package tui

import (
	"errors"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/quickaction"
	"github.com/thenoetrevino/funil/internal/tui/state"
)

// Init loads the board and starts listening for notifications
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadBoard(), m.listenNotifications(), tick())
}

// Update is the main update dispatcher that handles all messages and updates the model.
// This implements the "Update" part of the Model-View-Update pattern.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	// Check if context is cancelled (graceful shutdown)
	select {
	case <-m.Ctx.Done():
		return tea.Quit
	default:
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.UiState.SetWidth(msg.Width)
		m.UiState.SetHeight(msg.Height)
		m.UiState.ClampViewport(len(m.snapshot().Stages))
		return nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case BoardLoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		if msg.Err != nil {
			slog.Error("failed to load pipeline", "error", msg.Err)
			m.Notifier.Error("Could not load pipeline: " + describeError(msg.Err))
			return nil
		}
		m.clampSelection(m.snapshot())
		return nil

	case NotificationMsg:
		// commits and rollbacks announce themselves here; the board may have changed
		if m.UiState.Mode() != state.DragMode {
			m.clampSelection(m.snapshot())
		}
		return m.listenNotifications()

	case DashboardMsg:
		d := msg.Dashboard
		m.Dashboard = &d
		m.dashListening = false
		if m.refresher != nil && m.refresher.Running() {
			return m.listenDashboard()
		}
		return nil

	case QuickActionMsg:
		if msg.Err != nil {
			slog.Debug("quick action finished with error", "kind", msg.Kind, "error", msg.Err)
		}
		return nil

	case tickMsg:
		return tick()
	}

	return nil
}

// describeError keeps notification text short
func describeError(err error) string {
	var rej *gateway.ServerRejection
	switch {
	case errors.As(err, &rej) && rej.Message != "":
		return rej.Message
	case gateway.IsTransport(err):
		return "server unreachable"
	}
	return err.Error()
}

// dispatchQuickAction runs a quick action off the UI goroutine
func (m *Model) dispatchQuickAction(kind quickaction.Kind, qc quickaction.Context) tea.Cmd {
	d, ctx := m.Dispatcher, m.Ctx
	return func() tea.Msg {
		err := d.Dispatch(ctx, kind, qc)
		return QuickActionMsg{Kind: kind, Err: err}
	}
}

// grabMessage explains why a card cannot be grabbed
func grabMessage(err error) string {
	return fmt.Sprintf("Cannot move card: %v", err)
}
