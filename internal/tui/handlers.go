package tui

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/funil/internal/drag"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/quickaction"
	"github.com/thenoetrevino/funil/internal/tui/components"
	"github.com/thenoetrevino/funil/internal/tui/state"
)

// ============================================================================
// KEY DISPATCH
// ============================================================================

// handleKey dispatches key messages to the appropriate mode handler.
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.UiState.Mode() {
	case state.DragMode:
		return m.handleDragMode(msg)
	case state.HelpMode:
		return m.handleHelpMode(msg)
	case state.NormalMode:
	}
	return m.handleNormalMode(msg)
}

// handleNormalMode dispatches key events in NormalMode to specific handlers.
func (m *Model) handleNormalMode(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	km := m.Config.KeyMappings

	// keys that work on every tab
	switch key {
	case km.Quit, "ctrl+c":
		return tea.Quit
	case km.ShowHelp:
		m.UiState.SetMode(state.HelpMode)
		return nil
	case km.ToggleDashboard:
		return m.toggleDashboard()
	case km.Reload:
		return m.reload()
	}

	if m.UiState.Tab() == state.DashboardTab {
		// the dashboard scrolls; board keys do nothing there
		var cmd tea.Cmd
		m.dashView, cmd = m.dashView.Update(msg)
		return cmd
	}

	switch key {
	case km.PrevColumn, "left":
		return m.navigateColumn(-1)
	case km.NextColumn, "right":
		return m.navigateColumn(1)
	case km.PrevCard, "up":
		return m.navigateCard(-1)
	case km.NextCard, "down":
		return m.navigateCard(1)
	case km.GrabCard:
		return m.grab()
	case km.MoveCardUp:
		return m.nudge(-1)
	case km.MoveCardDown:
		return m.nudge(1)
	case km.WhatsApp:
		return m.whatsApp()
	}
	return nil
}

// handleDragMode moves the drop cursor and completes or cancels the drag
func (m *Model) handleDragMode(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	km := m.Config.KeyMappings

	switch key {
	case "ctrl+c":
		m.Controller.Cancel()
		return tea.Quit
	case km.CancelDrag:
		m.Controller.Cancel()
		m.UiState.SetMode(state.NormalMode)
		return nil
	case km.DropCard, km.GrabCard:
		return m.drop()
	case km.PrevColumn, "left":
		m.moveDropCursor(-1, 0)
	case km.NextColumn, "right":
		m.moveDropCursor(1, 0)
	case km.PrevCard, "up":
		m.moveDropCursor(0, -1)
	case km.NextCard, "down":
		m.moveDropCursor(0, 1)
	}
	return nil
}

// handleHelpMode closes the help screen on any key
func (m *Model) handleHelpMode(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	m.UiState.SetMode(state.NormalMode)
	return nil
}

// ============================================================================
// NAVIGATION
// ============================================================================

func (m *Model) navigateColumn(delta int) tea.Cmd {
	snap := m.snapshot()
	col := m.UiState.SelectedColumn() + delta
	if col < 0 || col >= len(snap.Stages) {
		return nil
	}
	m.UiState.SetSelectedColumn(col)
	m.UiState.SetSelectedCard(min(m.UiState.SelectedCard(), max(snap.Stages[col].Len()-1, 0)))
	m.UiState.EnsureColumnVisible(col)
	m.ensureCardVisible(snap)
	return nil
}

func (m *Model) navigateCard(delta int) tea.Cmd {
	snap := m.snapshot()
	stage := m.currentStage(snap)
	if stage == nil || stage.Len() == 0 {
		return nil
	}
	idx := m.UiState.SelectedCard() + delta
	if idx < 0 || idx >= stage.Len() {
		return nil
	}
	m.UiState.SetSelectedCard(idx)
	m.ensureCardVisible(snap)
	return nil
}

// ============================================================================
// DRAG AND DROP
// ============================================================================

// grab starts dragging the selected card with the drop cursor on its own slot
func (m *Model) grab() tea.Cmd {
	card, ok := m.currentCard(m.snapshot())
	if !ok {
		return nil
	}
	if err := m.Controller.Begin(card.ID); err != nil {
		if errors.Is(err, drag.ErrCommitPending) {
			m.Notifier.Warning(fmt.Sprintf("%s is still saving", card.Title))
		} else {
			m.Notifier.Warning(grabMessage(err))
		}
		return nil
	}

	col, idx := m.UiState.SelectedColumn(), m.UiState.SelectedCard()
	m.dragOrigin = [2]int{col, idx}
	m.UiState.SetDropCursor(col, idx)
	m.UiState.SetMode(state.DragMode)
	m.hover()
	return nil
}

// moveDropCursor walks the drop cursor. In the origin column the last slot is the
// last card; elsewhere the cursor may sit after the last card.
func (m *Model) moveDropCursor(dCol, dIdx int) {
	snap := m.snapshot()
	col, idx := m.UiState.DropCursor()

	col = min(max(col+dCol, 0), len(snap.Stages)-1)
	idx = min(max(idx+dIdx, 0), m.maxDropIndex(snap, col))
	m.UiState.SetDropCursor(col, idx)
	m.UiState.EnsureColumnVisible(col)
	m.hover()
}

func (m *Model) maxDropIndex(snap *models.Snapshot, col int) int {
	n := snap.Stages[col].Len()
	if col == m.dragOrigin[0] {
		return max(n-1, 0)
	}
	return n
}

// hover tells the controller what is under the drop cursor
func (m *Model) hover() {
	snap := m.snapshot()
	col, idx := m.UiState.DropCursor()
	if col < 0 || col >= len(snap.Stages) {
		m.Controller.ClearHover()
		return
	}
	stage := snap.Stages[col]
	target := drag.Target{StageID: stage.ID}
	if idx < stage.Len() {
		target.CardID = stage.Cards[idx].ID
	}
	_ = m.Controller.Hover(target)
}

// drop completes the drag; the cursor follows the card
func (m *Model) drop() tea.Cmd {
	cardID := m.Controller.Session().CardID
	m.UiState.SetMode(state.NormalMode)

	outcome, err := m.Controller.Drop(m.commitContext())
	if err != nil {
		m.Notifier.Error(fmt.Sprintf("Move failed: %v", err))
		m.clampSelection(m.snapshot())
		return nil
	}
	switch outcome {
	case drag.OutcomeMoved, drag.OutcomeReordered:
		m.follow(cardID)
	case drag.OutcomeNoop, drag.OutcomeCancelled:
	}
	return nil
}

// commitContext outlives the program so a move dropped just before quitting still
// lands; the controller bounds each commit with its own timeout
func (m *Model) commitContext() context.Context {
	return context.WithoutCancel(m.Ctx)
}

// nudge swaps the selected card with its neighbor in the same stage
func (m *Model) nudge(delta int) tea.Cmd {
	snap := m.snapshot()
	stage := m.currentStage(snap)
	card, ok := m.currentCard(snap)
	if !ok {
		return nil
	}
	target := m.UiState.SelectedCard() + delta
	if target < 0 || target >= stage.Len() {
		return nil
	}

	if err := m.Controller.Begin(card.ID); err != nil {
		m.Notifier.Warning(grabMessage(err))
		return nil
	}
	_ = m.Controller.Hover(drag.Target{StageID: stage.ID, CardID: stage.Cards[target].ID})
	if _, err := m.Controller.Drop(m.commitContext()); err != nil {
		m.Notifier.Error(fmt.Sprintf("Move failed: %v", err))
		return nil
	}
	m.follow(card.ID)
	return nil
}

// ============================================================================
// ACTIONS
// ============================================================================

func (m *Model) whatsApp() tea.Cmd {
	card, ok := m.currentCard(m.snapshot())
	if !ok || m.Dispatcher == nil {
		return nil
	}
	return m.dispatchQuickAction(quickaction.KindWhatsApp, quickaction.Context{Card: card, SellerID: m.Seller})
}

// reload refetches the visible tab
func (m *Model) reload() tea.Cmd {
	if m.UiState.Tab() == state.DashboardTab && m.refresher != nil {
		// restart so the fetch happens now instead of at the next tick
		m.refresher.Stop()
		m.refresher.Start(m.Ctx)
		return m.listenDashboard()
	}
	m.Notifier.Info("Reloading pipeline")
	return m.loadBoard()
}

// toggleDashboard switches tabs; the refresher only runs while the dashboard is shown
func (m *Model) toggleDashboard() tea.Cmd {
	if m.UiState.Tab() == state.DashboardTab {
		m.UiState.SetTab(state.BoardTab)
		if m.refresher != nil {
			m.refresher.Stop()
		}
		return nil
	}

	m.UiState.SetTab(state.DashboardTab)
	if m.refresher == nil {
		return nil
	}
	m.refresher.Start(m.Ctx)
	return m.listenDashboard()
}

// visibleCards is how many cards fit in a column at the current height
func visibleCards(ui *state.UIState) int {
	return components.VisibleCards(ui.ContentHeight())
}
