// Package api exposes the CRM backend endpoints the client consumes as typed calls
// on top of the gateway.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// Endpoint paths, relative to the API origin
const (
	PathPipeline     = "/crm/pipeline"
	PathInteractions = "/crm/interacoes"
	PathStatsPrefix  = "/crm/stats/"
)

// Stats endpoints
const (
	StatsTeam       = "team"
	StatsIndustries = "industries"
	StatsBirthdays  = "birthdays"
)

// MovePath returns the move endpoint for one opportunity
func MovePath(id types.OpportunityID) string {
	return fmt.Sprintf("/crm/oportunidades/%d/move", id)
}

var validate = validator.New()

// envelope is the {success, data, message} wrapper every endpoint answers with
type envelope[T any] struct {
	Success *bool  `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// check turns an explicit success=false into a ServerRejection
func (e *envelope[T]) check(raw json.RawMessage) error {
	if e.Success != nil && !*e.Success {
		var body any
		_ = json.Unmarshal(raw, &body)
		return &gateway.ServerRejection{Status: http.StatusOK, Body: body, Message: e.Message}
	}
	return nil
}

// MoveRequest is the body of PUT /crm/oportunidades/{id}/move
type MoveRequest struct {
	StageID types.StageID `json:"etapa_id" validate:"required,gt=0"`
}

// Client is the typed CRM API
type Client struct {
	gw *gateway.Client
}

// New wraps a gateway client
func New(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Gateway returns the underlying gateway client
func (c *Client) Gateway() *gateway.Client {
	return c.gw
}

// get performs a GET and unwraps the envelope into out
func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	var zero T
	raw, err := c.gw.Send(ctx, http.MethodGet, c.gw.URL(path), nil)
	if err != nil {
		return zero, err
	}
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := env.check(raw); err != nil {
		return zero, err
	}
	return env.Data, nil
}

// send performs a write and checks the envelope when the backend returned one
func send(ctx context.Context, c *Client, method, path string, body any) error {
	raw, err := c.gw.Send(ctx, method, c.gw.URL(path), body)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		// the audit endpoint's answer is opaque; a non-envelope body is not a failure
		return nil
	}
	return env.check(raw)
}

// Pipeline fetches the seller's board. A zero seller loads the tenant-wide board.
func (c *Client) Pipeline(ctx context.Context, seller types.SellerID) (*models.Snapshot, error) {
	path := PathPipeline
	if seller > 0 {
		path += "?" + url.Values{"ven_codigo": {seller.String()}}.Encode()
	}
	stages, err := get[[]*models.Stage](ctx, c, path)
	if err != nil {
		return nil, err
	}
	snap := &models.Snapshot{Stages: stages}
	for _, stage := range snap.Stages {
		if stage != nil && stage.Cards == nil {
			stage.Cards = []models.Card{}
		}
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("backend returned an invalid pipeline: %w", err)
	}
	return snap, nil
}

// MoveOpportunity persists the target column of a card. Intra-column order is not
// part of the backend contract.
func (c *Client) MoveOpportunity(ctx context.Context, id types.OpportunityID, stage types.StageID) error {
	req := MoveRequest{StageID: stage}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}
	return send(ctx, c, http.MethodPut, MovePath(id), req)
}

// RecordInteraction writes an interaction audit record
func (c *Client) RecordInteraction(ctx context.Context, in models.Interaction) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid interaction: %w", err)
	}
	return send(ctx, c, http.MethodPost, PathInteractions, in)
}

// TeamStats returns interaction counts per seller
func (c *Client) TeamStats(ctx context.Context) ([]models.TeamActivity, error) {
	return get[[]models.TeamActivity](ctx, c, PathStatsPrefix+StatsTeam)
}

// IndustryStats returns each industry's share of interactions
func (c *Client) IndustryStats(ctx context.Context) ([]models.IndustryShare, error) {
	return get[[]models.IndustryShare](ctx, c, PathStatsPrefix+StatsIndustries)
}

// Birthdays returns the clients in the backend's birthday window
func (c *Client) Birthdays(ctx context.Context) ([]models.Birthday, error) {
	return get[[]models.Birthday](ctx, c, PathStatsPrefix+StatsBirthdays)
}
