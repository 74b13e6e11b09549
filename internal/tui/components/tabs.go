package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Tab is one entry of the tab bar. Saving is the number of moves still being
// committed; it is shown next to the label while non-zero.
type Tab struct {
	Label  string
	Saving int
}

// Title returns the text shown inside the tab
func (t Tab) Title() string {
	if t.Saving > 0 {
		return fmt.Sprintf("%s ⟳ %d", t.Label, t.Saving)
	}
	return t.Label
}

// RenderTabs draws the tab bar, filling the remaining width with the gap line and
// right-aligning the inline notification
//
//	╭──────────────╮ ╭───────────╮                      [Notification]
//	│ Pipeline ⟳ 2 │ │ Dashboard │──────────────────────
func RenderTabs(tabs []Tab, selectedIdx int, width int, notificationContent string) string {
	rendered := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		style := TabStyle
		if i == selectedIdx {
			style = ActiveTabStyle
		}
		rendered = append(rendered, style.Render(tab.Title()))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	gapWidth := max(width-lipgloss.Width(row)-lipgloss.Width(notificationContent)-2, 0)
	gap := TabGapStyle.Render(strings.Repeat(" ", gapWidth))

	if notificationContent == "" {
		return lipgloss.JoinHorizontal(lipgloss.Bottom, row, gap)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, row, gap, notificationContent)
}
