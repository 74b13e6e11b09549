// Package tui is the interactive pipeline board. Cards are moved with the keyboard:
// grab a card, walk the drop cursor to another position, and drop. The board updates
// at once; the server commit and any rollback arrive as notifications.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/viewport"

	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/dashboard"
	"github.com/thenoetrevino/funil/internal/drag"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/quickaction"
	"github.com/thenoetrevino/funil/internal/tui/state"
	"github.com/thenoetrevino/funil/internal/types"
)

// Deps are the collaborators the board runs with
type Deps struct {
	Board      *pipeline.Board
	Controller *drag.Controller
	Dispatcher *quickaction.Dispatcher
	Aggregator *dashboard.Aggregator
	Notifier   *notify.Center
	Config     *config.Config
	Seller     types.SellerID
}

// Model represents the application state for the TUI
type Model struct {
	Ctx    context.Context
	Config *config.Config
	Seller types.SellerID

	Board      *pipeline.Board
	Controller *drag.Controller
	Dispatcher *quickaction.Dispatcher
	Notifier   *notify.Center

	UiState *state.UIState

	// Dashboard is the latest fetch, nil until the tab is first opened
	Dashboard     *dashboard.Dashboard
	refresher     *dashboard.Refresher
	dashCh        chan dashboard.Dashboard
	dashListening bool
	dashView      viewport.Model

	notifyCh chan struct{}

	// dragOrigin is the grabbed card's column and index when the drag began
	dragOrigin [2]int

	loading bool
	loadErr error

	now func() time.Time
}

// NewModel creates the board model. The board is loaded by Init.
func NewModel(ctx context.Context, deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Model{
		Ctx:        ctx,
		Config:     cfg,
		Seller:     deps.Seller,
		Board:      deps.Board,
		Controller: deps.Controller,
		Dispatcher: deps.Dispatcher,
		Notifier:   deps.Notifier,
		UiState:    state.NewUIState(),
		dashCh:     make(chan dashboard.Dashboard, 1),
		dashView:   viewport.New(),
		notifyCh:   deps.Notifier.Subscribe(),
		now:        time.Now,
	}
	if deps.Aggregator != nil {
		m.refresher = dashboard.NewRefresher(deps.Aggregator, cfg.Dashboard.RefreshInterval, m.publishDashboard)
	}
	return m
}

// publishDashboard hands a fetch to the UI; a stale undelivered fetch is replaced
func (m *Model) publishDashboard(d dashboard.Dashboard) {
	select {
	case <-m.dashCh:
	default:
	}
	select {
	case m.dashCh <- d:
	default:
	}
}

// Shutdown stops background work: the dashboard refresher, the notification
// subscription, and waits for in-flight commits
func (m *Model) Shutdown() {
	if m.refresher != nil {
		m.refresher.Stop()
	}
	m.Controller.Wait()
	m.Notifier.Unsubscribe(m.notifyCh)
}

// snapshot returns the current board, never nil
func (m *Model) snapshot() *models.Snapshot {
	return m.Board.Snapshot()
}

// currentStage returns the stage under the navigation cursor, or nil
func (m *Model) currentStage(snap *models.Snapshot) *models.Stage {
	col := m.UiState.SelectedColumn()
	if col < 0 || col >= len(snap.Stages) {
		return nil
	}
	return snap.Stages[col]
}

// currentCard returns the card under the navigation cursor
func (m *Model) currentCard(snap *models.Snapshot) (models.Card, bool) {
	stage := m.currentStage(snap)
	if stage == nil {
		return models.Card{}, false
	}
	idx := m.UiState.SelectedCard()
	if idx < 0 || idx >= stage.Len() {
		return models.Card{}, false
	}
	return stage.Cards[idx], true
}

// clampSelection keeps the cursor on an existing column and card after the board changed
func (m *Model) clampSelection(snap *models.Snapshot) {
	cols := len(snap.Stages)
	if cols == 0 {
		m.UiState.ResetSelection()
		return
	}
	col := min(max(m.UiState.SelectedColumn(), 0), cols-1)
	m.UiState.SetSelectedColumn(col)
	m.UiState.SetSelectedCard(min(max(m.UiState.SelectedCard(), 0), max(snap.Stages[col].Len()-1, 0)))
	m.UiState.ClampViewport(cols)
	m.UiState.EnsureColumnVisible(col)
}

// follow moves the cursor onto a card wherever it is now
func (m *Model) follow(cardID types.OpportunityID) {
	snap := m.snapshot()
	stageID, idx, ok := snap.Locate(cardID)
	if !ok {
		m.clampSelection(snap)
		return
	}
	m.UiState.SetSelectedColumn(snap.StageIndex(stageID))
	m.UiState.SetSelectedCard(idx)
	m.UiState.EnsureColumnVisible(m.UiState.SelectedColumn())
	m.ensureCardVisible(snap)
}

func (m *Model) ensureCardVisible(snap *models.Snapshot) {
	stage := m.currentStage(snap)
	if stage == nil {
		return
	}
	m.UiState.EnsureCardVisible(stage.ID, m.UiState.SelectedCard(), visibleCards(m.UiState))
}
