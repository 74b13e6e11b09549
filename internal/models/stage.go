package models

import (
	"slices"

	"github.com/thenoetrevino/funil/internal/types"
)

// Stage is one pipeline column (etapa) holding an ordered sequence of cards
type Stage struct {
	ID    types.StageID `json:"etapa_id"`
	Label string        `json:"nome"`
	Cards []Card        `json:"items"`
}

// IndexOf returns the position of the card in this stage, or -1
func (s *Stage) IndexOf(cardID types.OpportunityID) int {
	return slices.IndexFunc(s.Cards, func(c Card) bool { return c.ID == cardID })
}

// Len returns the number of cards in the stage
func (s *Stage) Len() int {
	return len(s.Cards)
}
