package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/thenoetrevino/funil/internal/models"
)

// StatsRepo computes dashboard aggregates
type StatsRepo struct {
	db *sql.DB
}

// TeamStats counts interactions per seller
func (r *StatsRepo) TeamStats(ctx context.Context) ([]models.TeamActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.ven_codigo, s.ven_nome, COUNT(i.id)
		FROM sellers s
		LEFT JOIN interactions i ON i.ven_codigo = s.ven_codigo
		GROUP BY s.ven_codigo, s.ven_nome
		ORDER BY COUNT(i.id) DESC, s.ven_nome`)
	if err != nil {
		return nil, fmt.Errorf("failed to query team stats: %w", err)
	}
	defer rows.Close()

	out := []models.TeamActivity{}
	for rows.Next() {
		var row models.TeamActivity
		if err := rows.Scan(&row.SellerID, &row.SellerName, &row.Interactions); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// IndustryStats counts interactions per client industry with each one's share
func (r *StatsRepo) IndustryStats(ctx context.Context) ([]models.IndustryShare, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.for_codigo, f.for_nomered, COUNT(i.id)
		FROM interactions i
		JOIN clients c ON c.cli_codigo = i.cli_codigo
		JOIN industries f ON f.for_codigo = c.for_codigo
		GROUP BY f.for_codigo, f.for_nomered
		ORDER BY COUNT(i.id) DESC, f.for_nomered`)
	if err != nil {
		return nil, fmt.Errorf("failed to query industry stats: %w", err)
	}
	defer rows.Close()

	out := []models.IndustryShare{}
	total := 0
	for rows.Next() {
		var row models.IndustryShare
		if err := rows.Scan(&row.IndustryID, &row.IndustryName, &row.Interactions); err != nil {
			return nil, err
		}
		total += row.Interactions
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if total > 0 {
			out[i].Share = models.Decimal(float64(out[i].Interactions) * 100 / float64(total))
		}
	}
	return out, nil
}

// Birthdays returns clients whose birthday falls within days of from, soonest first.
// Dates are reported as the upcoming occurrence (YYYY-MM-DD).
func (r *StatsRepo) Birthdays(ctx context.Context, from time.Time, days int) ([]models.Birthday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cli_codigo, cli_nome, cli_fone1, aniversario
		FROM clients
		WHERE aniversario IS NOT NULL AND aniversario != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query birthdays: %w", err)
	}
	defer rows.Close()

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	out := []models.Birthday{}
	for rows.Next() {
		var (
			row  models.Birthday
			born string
		)
		if err := rows.Scan(&row.ClientID, &row.ClientName, &row.Phone, &born); err != nil {
			return nil, err
		}
		date, err := time.Parse(time.DateOnly, born)
		if err != nil {
			continue
		}
		next := time.Date(start.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		if next.Before(start) {
			next = next.AddDate(1, 0, 0)
		}
		if !next.Before(end) {
			continue
		}
		row.Date = next.Format(time.DateOnly)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
