package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/funil/internal/dashboard"
	"github.com/thenoetrevino/funil/internal/drag"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/tui/components"
	"github.com/thenoetrevino/funil/internal/tui/notifications"
	"github.com/thenoetrevino/funil/internal/tui/state"
)

// View renders the current state of the application.
// This implements the "View" part of the Model-View-Update pattern.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	// Wait for terminal size to be initialized
	if m.UiState.Width() == 0 {
		view.Content = "Loading..."
		return view
	}

	if m.UiState.Mode() == state.HelpMode {
		view.Content = m.viewHelp()
		return view
	}

	var body string
	switch m.UiState.Tab() {
	case state.DashboardTab:
		body = m.viewDashboard()
	case state.BoardTab:
		body = m.viewBoard()
	}

	view.Content = lipgloss.JoinVertical(lipgloss.Left,
		m.viewTabs(),
		"",
		body,
		"",
		m.viewStatusBar(),
	)
	return view
}

func (m *Model) viewTabs() string {
	var inline string
	if active := m.Notifier.Active(m.now()); len(active) > 0 {
		inline = notifications.RenderInline(active[len(active)-1])
	}
	tabs := []components.Tab{
		{Label: "Pipeline", Saving: m.Controller.PendingCommits()},
		{Label: "Dashboard"},
	}
	return components.RenderTabs(tabs, int(m.UiState.Tab()), m.UiState.Width(), inline)
}

// viewBoard renders the visible stage columns with scroll arrows
func (m *Model) viewBoard() string {
	snap := m.snapshot()

	if len(snap.Stages) == 0 {
		switch {
		case m.loading:
			return components.SubtleStyle.Render("Loading pipeline...")
		case m.loadErr != nil:
			return components.SubtleStyle.Render(fmt.Sprintf("Could not load pipeline. Press %s to retry.", m.Config.KeyMappings.Reload))
		}
		return components.SubtleStyle.Render("No stages")
	}

	session := m.Controller.Session()
	dragging := m.UiState.Mode() == state.DragMode && session.State == drag.Dragging
	dropCol, dropIdx := m.UiState.DropCursor()
	height := m.UiState.ContentHeight()

	offset := min(m.UiState.ViewportOffset(), len(snap.Stages)-1)
	end := min(offset+m.UiState.ViewportSize(), len(snap.Stages))

	columns := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		stage := snap.Stages[i]
		props := components.ColumnProps{
			Stage:        stage,
			Selected:     !dragging && i == m.UiState.SelectedColumn(),
			SelectedCard: -1,
			DropIndex:    -1,
			Saving:       m.Controller.Pending,
			Height:       height,
			ScrollOffset: m.UiState.CardScrollOffset(stage.ID),
		}
		if props.Selected {
			props.SelectedCard = m.UiState.SelectedCard()
		}
		if dragging {
			props.Dragged = session.CardID
			if i == dropCol {
				props.DropIndex = m.markerIndex(stage, i, dropIdx)
			}
		}
		columns = append(columns, components.RenderColumn(props))
	}

	leftArrow, rightArrow := " ", " "
	if offset > 0 {
		leftArrow = "◀"
	}
	if end < len(snap.Stages) {
		rightArrow = "▶"
	}

	columnsView := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftArrow, " ", columnsView, " ", rightArrow)
}

// markerIndex places the drop marker where the card will land. Moving down within
// its own stage, the card lands after the hovered card.
func (m *Model) markerIndex(stage *models.Stage, col, dropIdx int) int {
	if col == m.dragOrigin[0] && dropIdx > m.dragOrigin[1] {
		return min(dropIdx+1, stage.Len())
	}
	return dropIdx
}

func (m *Model) viewDashboard() string {
	if m.Dashboard == nil {
		return components.SubtleStyle.Render("Loading dashboard...")
	}
	var b strings.Builder
	dashboard.Render(&b, *m.Dashboard)

	m.dashView.SetWidth(m.UiState.Width())
	m.dashView.SetHeight(m.UiState.ContentHeight())
	m.dashView.SetContent(strings.TrimRight(b.String(), "\n"))
	return m.dashView.View()
}

func (m *Model) viewStatusBar() string {
	snap := m.snapshot()
	info := fmt.Sprintf("%d stages  |  %d opportunities", len(snap.Stages), snap.CardCount())
	if m.Seller > 0 {
		info += fmt.Sprintf("  |  seller %d", m.Seller)
	}

	km := m.Config.KeyMappings
	hint := fmt.Sprintf("%s help  %s quit", km.ShowHelp, km.Quit)
	if m.UiState.Mode() == state.DragMode {
		hint = fmt.Sprintf("%s drop  %s cancel", km.DropCard, km.CancelDrag)
	}

	return components.RenderStatusBar(components.StatusBarProps{
		Width: m.UiState.Width(),
		Mode:  m.UiState.Mode().String(),
		Info:  info,
		Hint:  hint,
	})
}

func (m *Model) viewHelp() string {
	km := m.Config.KeyMappings
	row := func(key, desc string) string {
		return fmt.Sprintf("| `%s` | %s |", key, desc)
	}
	table := func(title string, rows ...string) string {
		return "## " + title + "\n\n| Key | Action |\n|---|---|\n" + strings.Join(rows, "\n") + "\n"
	}

	md := strings.Join([]string{
		"# Funil - Keyboard Shortcuts\n",
		table("Cards",
			row(km.GrabCard, "Grab selected card"),
			row(km.DropCard, "Drop grabbed card"),
			row(km.CancelDrag, "Cancel drag"),
			row(km.MoveCardUp, "Move card up"),
			row(km.MoveCardDown, "Move card down"),
			row(km.WhatsApp, "Message client on WhatsApp"),
		),
		table("Navigation",
			row(km.PrevColumn, "Previous stage"),
			row(km.NextColumn, "Next stage"),
			row(km.PrevCard, "Previous card"),
			row(km.NextCard, "Next card"),
		),
		table("Other",
			row(km.ToggleDashboard, "Switch pipeline / dashboard"),
			row(km.Reload, "Reload"),
			row(km.ShowHelp, "Show this help screen"),
			row(km.Quit, "Quit application"),
		),
		"Press any key to close",
	}, "\n")

	const helpWidth = 56
	helpBox := components.HelpBoxStyle.
		Width(helpWidth).
		Render(components.RenderMarkdown(md, helpWidth-4))

	return lipgloss.Place(
		m.UiState.Width(), m.UiState.Height(),
		lipgloss.Center, lipgloss.Center,
		helpBox,
	)
}
