package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*PipelineRepo
	*InteractionRepo
	*StatsRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		PipelineRepo:    &PipelineRepo{db: db},
		InteractionRepo: &InteractionRepo{db: db},
		StatsRepo:       &StatsRepo{db: db},
	}
}

var _ DataStore = (*Repository)(nil)
