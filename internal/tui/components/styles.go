// Package components provides reusable UI components and styles.
// Call InitStyles() before use to initialize all style variables.
package components

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/funil/internal/tui/state"
	"github.com/thenoetrevino/funil/internal/tui/theme"
)

// CardHeight is the fixed height of a rendered card, borders included
const CardHeight = 6

// cardTextWidth is the text width inside a card
const cardTextWidth = state.ColumnContentWidth - 4

// These are cached to avoid recomputing on every redraw.
var (
	activeTabBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      " ",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "┘",
		BottomRight: "└",
	}

	tabBorder = lipgloss.Border{
		Top:         "─",
		Bottom:      "─",
		Left:        "│",
		Right:       "│",
		TopLeft:     "╭",
		TopRight:    "╮",
		BottomLeft:  "┴",
		BottomRight: "┴",
	}

	// TabStyle defines inactive tabs
	TabStyle lipgloss.Style

	// ActiveTabStyle defines the selected tab
	ActiveTabStyle lipgloss.Style

	// TabGapStyle fills the remaining space after tabs
	TabGapStyle lipgloss.Style

	// ColumnStyle defines the appearance of pipeline stages
	ColumnStyle lipgloss.Style

	// CardStyle defines the appearance of opportunity cards
	CardStyle lipgloss.Style

	// TitleStyle defines the appearance of titles (stage names, app header)
	TitleStyle lipgloss.Style

	// SubtleStyle is muted secondary text
	SubtleStyle lipgloss.Style

	// ValueStyle renders money amounts
	ValueStyle lipgloss.Style

	// DropMarkerStyle renders the drop cursor while dragging
	DropMarkerStyle lipgloss.Style

	// HelpBoxStyle defines the base style for help screen
	HelpBoxStyle lipgloss.Style

	// StatusBarStyle is the bottom bar
	StatusBarStyle lipgloss.Style

	// ModeStyle highlights the mode badge in the status bar
	ModeStyle lipgloss.Style
)

func init() {
	InitStyles()
}

// InitStyles rebuilds every style from the current theme colors
func InitStyles() {
	TabStyle = lipgloss.NewStyle().
		Border(tabBorder, true).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(0, 1)

	ActiveTabStyle = TabStyle.
		Border(activeTabBorder, true).
		Foreground(lipgloss.Color(theme.Title)).
		Bold(true)

	TabGapStyle = TabStyle.
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false)

	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.ColumnBorder)).
		Padding(0, 1).
		Width(state.ColumnContentWidth + 4)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.CardBorder)).
		Foreground(lipgloss.Color(theme.Normal)).
		Width(state.ColumnContentWidth).
		Height(CardHeight - 2)

	TitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Title)).
		Bold(true)

	SubtleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Value))

	DropMarkerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.DropTarget)).
		Bold(true)

	HelpBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Background(lipgloss.Color(theme.StatusBarBg))

	ModeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarBg)).
		Background(lipgloss.Color(theme.StatusBarText)).
		Bold(true).
		Padding(0, 1)
}
