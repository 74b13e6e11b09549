// Package drag turns drag gestures into optimistic board mutations and reconciles
// them with the server: a cross-stage drop is applied locally at once, committed in
// the background, and rolled back and reloaded if the server refuses it.
package drag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/types"
)

// DefaultCommitTimeout bounds a background commit and its reload
const DefaultCommitTimeout = 20 * time.Second

// Controller runs one drag session at a time over a pipeline board. Commits run on
// their own goroutines and may overlap for different cards.
type Controller struct {
	board    *pipeline.Board
	notifier notify.Notifier
	logger   *slog.Logger

	commitTimeout time.Duration
	policy        RollbackPolicy
	observer      func(Transition)

	mu      sync.Mutex
	session Session
	pending map[types.OpportunityID]int

	wg sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller's logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCommitTimeout bounds each background commit
func WithCommitTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.commitTimeout = d
		}
	}
}

// WithRollbackPolicy selects how failed commits are undone
func WithRollbackPolicy(p RollbackPolicy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithObserver registers a callback for state transitions. It is called with the
// controller's lock held and must not call back into the controller.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) {
		c.observer = fn
	}
}

// NewController creates a controller. notifier may be nil.
func NewController(board *pipeline.Board, notifier notify.Notifier, opts ...Option) *Controller {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	c := &Controller{
		board:         board,
		notifier:      notifier,
		logger:        slog.Default(),
		commitTimeout: DefaultCommitTimeout,
		pending:       make(map[types.OpportunityID]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current drag session
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

// Pending reports whether a commit for the card is still in flight
func (c *Controller) Pending(cardID types.OpportunityID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[cardID] > 0
}

// PendingCommits returns how many commits are in flight across all cards
func (c *Controller) PendingCommits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.pending {
		total += n
	}
	return total
}

// Begin starts dragging a card
func (c *Controller) Begin(cardID types.OpportunityID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State == Dragging {
		return ErrDragInProgress
	}
	if c.pending[cardID] > 0 {
		return fmt.Errorf("card %d: %w", cardID, ErrCommitPending)
	}
	stageID, _, ok := c.board.Locate(cardID)
	if !ok {
		return fmt.Errorf("card %d: %w", cardID, ErrUnknownCard)
	}

	c.session.CardID = cardID
	c.session.Origin = stageID
	c.transition(Dragging)
	return nil
}

// Hover updates the drop target under the pointer
func (c *Controller) Hover(target Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != Dragging {
		return ErrNotDragging
	}
	c.session.Hover = target
	c.session.HasTarget = true
	return nil
}

// ClearHover drops the current target; a Drop without a target cancels
func (c *Controller) ClearHover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Hover = Target{}
	c.session.HasTarget = false
}

// Cancel abandons the drag without touching the board
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != Dragging {
		return
	}
	c.transition(Cancelled)
	c.reset()
}

// Drop completes the gesture. The board is updated before Drop returns; for a
// cross-stage move the server commit continues in the background under ctx.
func (c *Controller) Drop(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.State != Dragging {
		return OutcomeCancelled, ErrNotDragging
	}
	if !c.session.HasTarget {
		c.transition(Cancelled)
		c.reset()
		return OutcomeCancelled, nil
	}

	cardID := c.session.CardID
	from, fromIndex, ok := c.board.Locate(cardID)
	if !ok {
		// the card disappeared under us, e.g. a reload finished mid-drag
		c.transition(Cancelled)
		c.reset()
		return OutcomeCancelled, fmt.Errorf("card %d: %w", cardID, ErrUnknownCard)
	}

	to, toIndex, ok := c.resolve(c.session.Hover, from, fromIndex)
	if !ok {
		c.transition(Cancelled)
		c.reset()
		return OutcomeCancelled, nil
	}

	c.transition(Dropped)
	defer c.reset()

	if to == from && toIndex == fromIndex {
		return OutcomeNoop, nil
	}

	cmd := pipeline.MoveCommand{CardID: cardID, From: from, FromIndex: fromIndex, To: to, ToIndex: toIndex}
	done, rollback, err := c.board.ApplyOptimistic(cmd)
	if err != nil {
		return OutcomeCancelled, err
	}
	if !done.CrossStage() {
		return OutcomeReordered, nil
	}

	c.pending[cardID]++
	c.wg.Add(1)
	go c.commit(ctx, done, rollback)
	return OutcomeMoved, nil
}

// resolve turns a hover target into a destination. A card target takes the hovered
// card's index (the dragged card ends up where that card was); a stage target
// appends to the stage.
func (c *Controller) resolve(target Target, from types.StageID, fromIndex int) (types.StageID, int, bool) {
	if target.IsCard() {
		if target.CardID == c.session.CardID {
			return from, fromIndex, true
		}
		stageID, idx, ok := c.board.Locate(target.CardID)
		return stageID, idx, ok
	}

	n := c.board.StageLen(target.StageID)
	if n < 0 {
		return 0, 0, false
	}
	if target.StageID == from {
		// the card is already counted in its own stage
		return from, n - 1, true
	}
	return target.StageID, n, true
}

// commit persists a cross-stage move and reconciles on failure
func (c *Controller) commit(ctx context.Context, cmd pipeline.MoveCommand, rollback *models.Snapshot) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.pending[cmd.CardID]--
		if c.pending[cmd.CardID] <= 0 {
			delete(c.pending, cmd.CardID)
		}
		c.mu.Unlock()
	}()

	commitCtx, cancel := context.WithTimeout(ctx, c.commitTimeout)
	defer cancel()

	err := c.board.CommitMove(commitCtx, cmd.CardID, cmd.To)
	if err == nil {
		c.logger.Debug("move committed", "move", cmd.String())
		c.notifier.Notify(notify.LevelSuccess, c.movedMessage(cmd))
		return
	}

	c.logger.Warn("move rejected, rolling back", "move", cmd.String(), "error", err)
	c.rollback(cmd, rollback)

	reloadCtx, cancelReload := context.WithTimeout(ctx, c.commitTimeout)
	defer cancelReload()
	_, loadErr := c.board.Load(reloadCtx)

	c.notifier.Notify(notify.LevelError, fmt.Sprintf("Could not move card %d: %s", cmd.CardID, describe(err)))
	if loadErr != nil {
		c.logger.Error("reload after failed move", "error", loadErr)
		c.notifier.Notify(notify.LevelError, "Board reload failed: "+describe(loadErr))
	}
}

// rollback undoes a rejected move before the reload lands
func (c *Controller) rollback(cmd pipeline.MoveCommand, snap *models.Snapshot) {
	switch c.policy {
	case RollbackInvert:
		if _, err := c.board.Apply(cmd.Invert()); err == nil {
			return
		}
		// the card moved again since; fall back to the copy
		c.board.ReplaceWith(snap)
	case RollbackSnapshot:
		c.board.ReplaceWith(snap)
	}
}

// Wait blocks until every in-flight commit has settled
func (c *Controller) Wait() {
	c.wg.Wait()
}

// transition moves the session to next and reports it. The caller holds c.mu.
func (c *Controller) transition(next State) {
	prev := c.session.State
	c.session.State = next
	c.logger.Debug("drag transition", "from", prev.String(), "to", next.String(), "card", c.session.CardID)
	if c.observer != nil {
		c.observer(Transition{From: prev, To: next, CardID: c.session.CardID})
	}
}

// reset returns the session to Idle. The caller holds c.mu.
func (c *Controller) reset() {
	c.transition(Idle)
	c.session = Session{}
}

func (c *Controller) movedMessage(cmd pipeline.MoveCommand) string {
	snap := c.board.Snapshot()
	card, _ := snap.Card(cmd.CardID)
	label := cmd.To.String()
	if stage := snap.Stage(cmd.To); stage != nil && stage.Label != "" {
		label = stage.Label
	}
	name := card.Title
	if name == "" {
		name = "Card " + cmd.CardID.String()
	}
	return fmt.Sprintf("%s moved to %s", name, label)
}

// describe renders an error for a notification, preferring the server's message
func describe(err error) string {
	var rej *gateway.ServerRejection
	if errors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	if gateway.IsTransport(err) {
		return "server unreachable"
	}
	return err.Error()
}
