// Package notifications renders notify.Center entries for the tab bar.
package notifications

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/tui/theme"
)

type style struct {
	icon       string
	foreground string
	background string
}

func styleFor(level notify.Level) style {
	switch level {
	case notify.LevelSuccess:
		return style{icon: "✓", foreground: theme.SuccessFg, background: theme.SuccessBg}
	case notify.LevelWarning:
		return style{icon: "⚠", foreground: theme.WarningFg, background: theme.WarningBg}
	case notify.LevelError:
		return style{icon: "✕", foreground: theme.ErrorFg, background: theme.ErrorBg}
	case notify.LevelInfo:
	}
	return style{icon: "🔔", foreground: theme.InfoFg, background: theme.InfoBg}
}

// RenderInline renders a compact single-line notification
func RenderInline(n notify.Notification) string {
	s := styleFor(n.Level)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.foreground)).
		Background(lipgloss.Color(s.background)).
		Padding(0, 1).
		Render(s.icon + " " + n.Message)
}
