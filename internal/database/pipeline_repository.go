package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// PipelineRepo handles stages and opportunities
type PipelineRepo struct {
	db *sql.DB
}

// Pipeline returns every stage in board order with the seller's opportunities.
// A zero seller returns all opportunities.
func (r *PipelineRepo) Pipeline(ctx context.Context, seller types.SellerID) ([]*models.Stage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT etapa_id, nome FROM stages ORDER BY ordem, etapa_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	stages := []*models.Stage{}
	byID := map[types.StageID]*models.Stage{}
	for rows.Next() {
		stage := &models.Stage{Cards: []models.Card{}}
		if err := rows.Scan(&stage.ID, &stage.Label); err != nil {
			_ = rows.Close()
			return nil, err
		}
		stages = append(stages, stage)
		byID[stage.ID] = stage
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT o.oportunidade_id, o.titulo, o.etapa_id, o.valor_estimado, o.ven_codigo,
		       c.cli_codigo, c.cli_nome, c.cli_fone1,
		       COALESCE((SELECT MAX(i.created_at) FROM interactions i WHERE i.oportunidade_id = o.oportunidade_id), '')
		FROM opportunities o
		JOIN clients c ON c.cli_codigo = o.cli_codigo
		WHERE ? = 0 OR o.ven_codigo = ?
		ORDER BY o.oportunidade_id`, seller, seller)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			card    models.Card
			stageID types.StageID
			owner   int
		)
		if err := rows.Scan(&card.ID, &card.Title, &stageID, &card.EstimatedValue, &owner,
			&card.ClientID, &card.ClientName, &card.Phone, &card.LastContact); err != nil {
			return nil, err
		}
		card.Extra = map[string]any{"ven_codigo": owner}
		if stage, ok := byID[stageID]; ok {
			stage.Cards = append(stage.Cards, card)
		}
	}
	return stages, rows.Err()
}

// MoveOpportunity sets the opportunity's stage
func (r *PipelineRepo) MoveOpportunity(ctx context.Context, id types.OpportunityID, stage types.StageID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM stages WHERE etapa_id = ?`, stage)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrStageNotFound, stage)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE opportunities SET etapa_id = ?, updated_at = CURRENT_TIMESTAMP WHERE oportunidade_id = ?`,
			stage, id)
		if err != nil {
			return fmt.Errorf("failed to move opportunity: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %d", ErrOpportunityNotFound, id)
		}
		return nil
	})
}
