package components

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// StatusBarProps is the content of the bottom bar
type StatusBarProps struct {
	Width int
	Mode  string
	Info  string
	Hint  string
}

// RenderStatusBar renders the mode badge and info on the left and a key hint on the right
func RenderStatusBar(props StatusBarProps) string {
	left := ModeStyle.Render(props.Mode) + StatusBarStyle.Render(" "+props.Info)
	right := StatusBarStyle.Render(props.Hint + " ")

	gapWidth := max(props.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	gap := StatusBarStyle.Render(strings.Repeat(" ", gapWidth))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}
