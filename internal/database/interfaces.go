package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// PipelineRepository reads and moves opportunities
type PipelineRepository interface {
	Pipeline(ctx context.Context, seller types.SellerID) ([]*models.Stage, error)
	MoveOpportunity(ctx context.Context, id types.OpportunityID, stage types.StageID) error
}

// InteractionRepository records client interactions
type InteractionRepository interface {
	RecordInteraction(ctx context.Context, in models.Interaction) (int64, error)
}

// StatsRepository computes the dashboard aggregates
type StatsRepository interface {
	TeamStats(ctx context.Context) ([]models.TeamActivity, error)
	IndustryStats(ctx context.Context) ([]models.IndustryShare, error)
	Birthdays(ctx context.Context, from time.Time, days int) ([]models.Birthday, error)
}

// DataStore defines the unified interface for all data operations needed by the
// backend handlers. Handlers depend on the smaller interfaces where they can.
type DataStore interface {
	PipelineRepository
	InteractionRepository
	StatsRepository
}
