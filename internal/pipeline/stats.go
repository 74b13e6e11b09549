package pipeline

import "github.com/thenoetrevino/funil/internal/types"

// StageStats summarizes one column
type StageStats struct {
	StageID types.StageID `json:"stage_id"`
	Label   string        `json:"label"`
	Cards   int           `json:"cards"`
	Value   float64       `json:"value"`
}

// Stats summarizes the whole board
type Stats struct {
	TotalCards int          `json:"total_cards"`
	TotalValue float64      `json:"total_value"`
	Stages     []StageStats `json:"stages"`
}

// Stats computes card counts and estimated values per stage
func (b *Board) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := Stats{Stages: make([]StageStats, 0, len(b.snap.Stages))}
	for _, stage := range b.snap.Stages {
		s := StageStats{StageID: stage.ID, Label: stage.Label, Cards: stage.Len()}
		for _, card := range stage.Cards {
			s.Value += card.EstimatedValue
		}
		out.TotalCards += s.Cards
		out.TotalValue += s.Value
		out.Stages = append(out.Stages, s)
	}
	return out
}
