package pipeline

import (
	"fmt"
	"slices"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// MoveCommand is one reversible card move. FromIndex records where the card was so
// the move can be inverted; ToIndex is the requested insertion point and is clamped
// when applied.
type MoveCommand struct {
	CardID    types.OpportunityID
	From      types.StageID
	FromIndex int
	To        types.StageID
	ToIndex   int
}

// CrossStage reports whether the command changes the card's column
func (m MoveCommand) CrossStage() bool {
	return m.From != m.To
}

// Invert returns the command that undoes m
func (m MoveCommand) Invert() MoveCommand {
	return MoveCommand{
		CardID:    m.CardID,
		From:      m.To,
		FromIndex: m.ToIndex,
		To:        m.From,
		ToIndex:   m.FromIndex,
	}
}

func (m MoveCommand) String() string {
	return fmt.Sprintf("card %d: stage %d[%d] -> stage %d[%d]", m.CardID, m.From, m.FromIndex, m.To, m.ToIndex)
}

// Apply performs the move on snap. The card must currently be in m.From. It returns
// the command with both indices resolved to where the card was and where it landed,
// which is what Invert needs.
func (m MoveCommand) Apply(snap *models.Snapshot) (MoveCommand, error) {
	from := snap.Stage(m.From)
	if from == nil {
		return m, &InvariantViolation{Op: "move", CardID: m.CardID, Stage: m.From, Err: ErrUnknownStage}
	}
	to := snap.Stage(m.To)
	if to == nil {
		return m, &InvariantViolation{Op: "move", CardID: m.CardID, Stage: m.To, Err: ErrUnknownStage}
	}
	idx := from.IndexOf(m.CardID)
	if idx < 0 {
		return m, &InvariantViolation{Op: "move", CardID: m.CardID, Stage: m.From, Err: ErrUnknownCard}
	}

	card := from.Cards[idx]
	from.Cards = slices.Delete(from.Cards, idx, idx+1)
	// arrayMove semantics: the index is taken after removal
	dest := clamp(m.ToIndex, 0, len(to.Cards))
	to.Cards = slices.Insert(to.Cards, dest, card)
	m.FromIndex = idx
	m.ToIndex = dest
	return m, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
