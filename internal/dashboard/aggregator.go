// Package dashboard fetches the CRM aggregates shown next to the board. Each section
// is fetched independently so one failing endpoint never blanks the others.
package dashboard

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/funil/internal/models"
)

// Source is the subset of the CRM API the dashboard reads
type Source interface {
	TeamStats(ctx context.Context) ([]models.TeamActivity, error)
	IndustryStats(ctx context.Context) ([]models.IndustryShare, error)
	Birthdays(ctx context.Context) ([]models.Birthday, error)
}

// Section is one aggregate: its rows, or the error that prevented loading them
type Section[T any] struct {
	Rows []T
	Err  error
}

// OK reports whether the section loaded
func (s Section[T]) OK() bool {
	return s.Err == nil
}

// Dashboard is one complete fetch
type Dashboard struct {
	Team       Section[models.TeamActivity]
	Industries Section[models.IndustryShare]
	Birthdays  Section[models.Birthday]
	FetchedAt  time.Time
}

// Failed returns the names of the sections that did not load
func (d Dashboard) Failed() []string {
	var out []string
	if !d.Team.OK() {
		out = append(out, "team")
	}
	if !d.Industries.OK() {
		out = append(out, "industries")
	}
	if !d.Birthdays.OK() {
		out = append(out, "birthdays")
	}
	return out
}

// Aggregator fetches every section concurrently
type Aggregator struct {
	source Source
	logger *slog.Logger
	now    func() time.Time
}

// NewAggregator creates an aggregator over source
func NewAggregator(source Source, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{source: source, logger: logger, now: time.Now}
}

// Fetch loads all sections. Section failures are recorded in the result rather than
// returned, so the group never cancels a sibling.
func (a *Aggregator) Fetch(ctx context.Context) Dashboard {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := a.source.TeamStats(ctx)
		d.Team = newSection(a.logger, "team", rows, err)
		slices.SortStableFunc(d.Team.Rows, func(x, y models.TeamActivity) int {
			return cmp.Or(cmp.Compare(y.Interactions, x.Interactions), cmp.Compare(x.SellerName, y.SellerName))
		})
		return nil
	})
	g.Go(func() error {
		rows, err := a.source.IndustryStats(ctx)
		d.Industries = newSection(a.logger, "industries", rows, err)
		slices.SortStableFunc(d.Industries.Rows, func(x, y models.IndustryShare) int {
			return cmp.Or(cmp.Compare(y.Interactions, x.Interactions), cmp.Compare(x.IndustryName, y.IndustryName))
		})
		return nil
	})
	g.Go(func() error {
		rows, err := a.source.Birthdays(ctx)
		d.Birthdays = newSection(a.logger, "birthdays", rows, err)
		slices.SortStableFunc(d.Birthdays.Rows, func(x, y models.Birthday) int {
			return cmp.Compare(x.Date, y.Date)
		})
		return nil
	})

	_ = g.Wait()
	d.FetchedAt = a.now()
	return d
}

// newSection logs a failed fetch and keeps the error for rendering
func newSection[T any](logger *slog.Logger, name string, rows []T, err error) Section[T] {
	if err != nil {
		logger.Warn("dashboard section unavailable", "section", name, "error", err)
		return Section[T]{Err: err}
	}
	return Section[T]{Rows: rows}
}
