package models

import (
	"fmt"

	"github.com/thenoetrevino/funil/internal/types"
)

// Snapshot is the full ordered state of the board: every stage with its cards.
// The pipeline view model owns the live copy; everything handed out is a Clone.
type Snapshot struct {
	Stages []*Stage
}

// Clone returns a deep copy so callers can keep it as a rollback target
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	out := &Snapshot{Stages: make([]*Stage, len(s.Stages))}
	for i, stage := range s.Stages {
		cards := make([]Card, len(stage.Cards))
		for j, card := range stage.Cards {
			cards[j] = card.clone()
		}
		out.Stages[i] = &Stage{ID: stage.ID, Label: stage.Label, Cards: cards}
	}
	return out
}

// Stage returns the stage with the given id, or nil
func (s *Snapshot) Stage(id types.StageID) *Stage {
	for _, stage := range s.Stages {
		if stage.ID == id {
			return stage
		}
	}
	return nil
}

// StageIndex returns the column position of the stage, or -1
func (s *Snapshot) StageIndex(id types.StageID) int {
	for i, stage := range s.Stages {
		if stage.ID == id {
			return i
		}
	}
	return -1
}

// Locate finds the stage and index holding the card
func (s *Snapshot) Locate(cardID types.OpportunityID) (types.StageID, int, bool) {
	for _, stage := range s.Stages {
		if idx := stage.IndexOf(cardID); idx >= 0 {
			return stage.ID, idx, true
		}
	}
	return 0, -1, false
}

// Card returns a copy of the card with the given id
func (s *Snapshot) Card(cardID types.OpportunityID) (Card, bool) {
	stageID, idx, ok := s.Locate(cardID)
	if !ok {
		return Card{}, false
	}
	return s.Stage(stageID).Cards[idx], true
}

// CardCount returns the number of cards across all stages
func (s *Snapshot) CardCount() int {
	total := 0
	for _, stage := range s.Stages {
		total += len(stage.Cards)
	}
	return total
}

// Validate checks the board invariant: stage ids are unique and every card
// belongs to exactly one stage.
func (s *Snapshot) Validate() error {
	stages := make(map[types.StageID]bool, len(s.Stages))
	owners := make(map[types.OpportunityID]types.StageID)
	for _, stage := range s.Stages {
		if stage == nil {
			return fmt.Errorf("%w: nil stage", ErrMalformedSnapshot)
		}
		if stages[stage.ID] {
			return fmt.Errorf("%w: stage %d", ErrDuplicateStage, stage.ID)
		}
		stages[stage.ID] = true
		for _, card := range stage.Cards {
			if owner, seen := owners[card.ID]; seen {
				return fmt.Errorf("%w: card %d in stages %d and %d", ErrDuplicateCard, card.ID, owner, stage.ID)
			}
			owners[card.ID] = stage.ID
		}
	}
	return nil
}
