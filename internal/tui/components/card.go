package components

import (
	"strconv"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/tui/theme"
)

// CardState is how a card is highlighted
type CardState int

const (
	CardIdle     CardState = iota
	CardSelected           // under the navigation cursor
	CardDragged            // grabbed, waiting for a drop
	CardSaving             // moved, commit in flight
)

// RenderCard renders one opportunity as a fixed-height card
//
//	┌────────────────────────────┐
//	│ {Title}                    │
//	│ {Client}                   │
//	│ R$ {value}                 │
//	│ {last contact}             │
//	└────────────────────────────┘
func RenderCard(card models.Card, cs CardState) string {
	title := lipgloss.NewStyle().Bold(true).Render(truncate(card.Title))
	client := SubtleStyle.Render(truncate(card.ClientName))
	value := ValueStyle.Render(FormatValue(card.EstimatedValue))

	last := card.LastContact
	switch {
	case cs == CardSaving:
		last = "⟳ saving…"
	case last == "":
		last = "no contact yet"
	}
	contact := SubtleStyle.Italic(true).Render(truncate(last))

	content := lipgloss.JoinVertical(lipgloss.Left, title, client, value, contact)

	style := CardStyle
	switch cs {
	case CardSelected:
		style = style.BorderForeground(lipgloss.Color(theme.SelectedBorder))
	case CardDragged:
		style = style.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(theme.DragBorder))
	case CardSaving:
		style = style.BorderForeground(lipgloss.Color(theme.Subtle))
	case CardIdle:
	}
	return style.Render(content)
}

// FormatValue formats an estimated value in reais
func FormatValue(v float64) string {
	return "R$ " + strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= cardTextWidth {
		return s
	}
	return string(r[:cardTextWidth-1]) + "…"
}
