package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
	"github.com/thenoetrevino/funil/internal/tui/theme"
)

// ColumnProps describes one stage column to render
type ColumnProps struct {
	Stage *models.Stage

	// Selected is true when the navigation cursor is in this column
	Selected bool

	// SelectedCard is the cursor index, or -1
	SelectedCard int

	// Dragged is the grabbed card, zero when not dragging
	Dragged types.OpportunityID

	// DropIndex is where the drop cursor sits in this column, or -1
	DropIndex int

	// Saving reports cards with a commit in flight
	Saving func(types.OpportunityID) bool

	// Height is the total column height; ScrollOffset the first visible card
	Height       int
	ScrollOffset int
}

// VisibleCards returns how many cards fit in a column of the given height
func VisibleCards(height int) int {
	// border(2) + header(1) + total(1) + indicators(2)
	const columnOverhead = 6
	return max((height-columnOverhead)/CardHeight, 1)
}

// RenderColumn renders a stage with its cards
//
// Layout:
//
//	{Stage} ({count})
//	R$ {total}
//	▲ (if scrolled down)
//	{Card 1}
//	{Card 2}
//	...
//	▼ (if more cards below)
func RenderColumn(p ColumnProps) string {
	stage := p.Stage

	var total float64
	for _, card := range stage.Cards {
		total += card.EstimatedValue
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s (%d)", stage.Label, stage.Len())))
	b.WriteString("\n")
	b.WriteString(ValueStyle.Render(FormatValue(total)))
	b.WriteString("\n")

	indicatorStyle := SubtleStyle.Align(lipgloss.Center)
	marker := DropMarkerStyle.Render("▶ drop here")

	if stage.Len() == 0 {
		if p.DropIndex >= 0 {
			b.WriteString(marker)
		} else {
			b.WriteString(SubtleStyle.Italic(true).Render("No opportunities"))
		}
	} else {
		visible := VisibleCards(p.Height)
		offset := min(max(p.ScrollOffset, 0), max(stage.Len()-visible, 0))
		end := min(offset+visible, stage.Len())

		if offset > 0 {
			b.WriteString(indicatorStyle.Render("▲ more above"))
		}
		b.WriteString("\n")

		for i := offset; i < end; i++ {
			if i == p.DropIndex {
				b.WriteString(marker + "\n")
			}
			card := stage.Cards[i]
			b.WriteString(RenderCard(card, cardState(p, i, card.ID)))
			b.WriteString("\n")
		}
		if p.DropIndex == stage.Len() && end == stage.Len() {
			b.WriteString(marker + "\n")
		}

		if end < stage.Len() {
			b.WriteString(indicatorStyle.Render("▼ more below"))
		}
	}

	style := ColumnStyle
	switch {
	case p.DropIndex >= 0:
		style = style.BorderForeground(lipgloss.Color(theme.DropTarget))
	case p.Selected:
		style = style.BorderForeground(lipgloss.Color(theme.SelectedBorder))
	}
	if p.Height > 0 {
		style = style.Height(p.Height - 2)
	}

	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func cardState(p ColumnProps, index int, id types.OpportunityID) CardState {
	switch {
	case p.Dragged != 0 && id == p.Dragged:
		return CardDragged
	case p.Saving != nil && p.Saving(id):
		return CardSaving
	case p.Selected && index == p.SelectedCard:
		return CardSelected
	}
	return CardIdle
}
