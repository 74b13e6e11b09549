package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/funil/internal/models"
)

// InteractionRepo handles the interaction log
type InteractionRepo struct {
	db *sql.DB
}

// RecordInteraction inserts an interaction and returns its id
func (r *InteractionRepo) RecordInteraction(ctx context.Context, in models.Interaction) (int64, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM clients WHERE cli_codigo = ?`, in.ClientID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrClientNotFound, in.ClientID)
		}
		ok, err = exists(ctx, tx, `SELECT 1 FROM sellers WHERE ven_codigo = ?`, in.SellerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ErrSellerNotFound, in.SellerID)
		}

		var opportunity sql.NullInt64
		if in.OpportunityID > 0 {
			ok, err = exists(ctx, tx, `SELECT 1 FROM opportunities WHERE oportunidade_id = ?`, in.OpportunityID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %d", ErrOpportunityNotFound, in.OpportunityID)
			}
			opportunity = sql.NullInt64{Int64: int64(in.OpportunityID), Valid: true}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO interactions (cli_codigo, ven_codigo, oportunidade_id, tipo_interacao_id, canal_id, resultado_id, descricao)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			in.ClientID, in.SellerID, opportunity, in.Type, in.Channel, in.Result, in.Description)
		if err != nil {
			return fmt.Errorf("failed to insert interaction: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}
