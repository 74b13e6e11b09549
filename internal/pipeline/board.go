// Package pipeline owns the local copy of the CRM pipeline board. Every mutation
// goes through Board so the board invariant holds between calls: each card belongs to
// exactly one stage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// Backend is the subset of the CRM API the board needs
type Backend interface {
	Pipeline(ctx context.Context, seller types.SellerID) (*models.Snapshot, error)
	MoveOpportunity(ctx context.Context, id types.OpportunityID, stage types.StageID) error
}

// Board is the pipeline view model. It is safe for concurrent use; mutations are
// applied in call order.
type Board struct {
	mu      sync.Mutex
	snap    *models.Snapshot
	loaded  bool
	version uint64

	backend Backend
	seller  types.SellerID
	logger  *slog.Logger
}

// Option configures a Board
type Option func(*Board)

// WithLogger sets the board's logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSnapshot seeds the board without a fetch
func WithSnapshot(snap *models.Snapshot) Option {
	return func(b *Board) {
		b.snap = snap.Clone()
		b.loaded = true
	}
}

// NewBoard creates a board for one seller. backend may be nil for offline use.
func NewBoard(backend Backend, seller types.SellerID, opts ...Option) *Board {
	b := &Board{
		snap:    &models.Snapshot{},
		backend: backend,
		seller:  seller,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Seller returns the seller the board is scoped to
func (b *Board) Seller() types.SellerID {
	return b.seller
}

// Load fetches the board from the backend and replaces the local copy unconditionally
func (b *Board) Load(ctx context.Context) (*models.Snapshot, error) {
	if b.backend == nil {
		return nil, ErrNoBackend
	}
	snap, err := b.backend.Pipeline(ctx, b.seller)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	b.ReplaceWith(snap)
	b.logger.Debug("pipeline loaded", "seller", b.seller, "stages", len(snap.Stages), "cards", snap.CardCount())
	return snap.Clone(), nil
}

// Loaded reports whether the board holds a snapshot from a load or a replace
func (b *Board) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}

// Version increments on every successful mutation; renderers use it to skip redraws
func (b *Board) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Snapshot returns a deep copy of the current board
func (b *Board) Snapshot() *models.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap.Clone()
}

// Locate returns the stage and index of a card
func (b *Board) Locate(cardID types.OpportunityID) (types.StageID, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap.Locate(cardID)
}

// Card returns a copy of a card
func (b *Board) Card(cardID types.OpportunityID) (models.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap.Card(cardID)
}

// StageLen returns the number of cards in a stage, or -1 for an unknown stage
func (b *Board) StageLen(stageID types.StageID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	stage := b.snap.Stage(stageID)
	if stage == nil {
		return -1
	}
	return stage.Len()
}

// ReplaceWith swaps the whole board for a copy of snap
func (b *Board) ReplaceWith(snap *models.Snapshot) {
	next := snap.Clone()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = next
	b.loaded = true
	b.version++
}

// MoveCard moves a card from one stage to another, inserting it at toIndex clamped to
// [0, len(to)]. It only touches local state.
func (b *Board) MoveCard(cardID types.OpportunityID, from, to types.StageID, toIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.applyLocked(MoveCommand{CardID: cardID, From: from, To: to, ToIndex: toIndex})
	return err
}

// ReorderWithinStage moves the card at fromIndex to toIndex inside one stage. Both
// indices are clamped; equal indices leave the board untouched.
func (b *Board) ReorderWithinStage(stageID types.StageID, fromIndex, toIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stage := b.snap.Stage(stageID)
	if stage == nil {
		return b.violation(&InvariantViolation{Op: "reorder", Stage: stageID, Err: ErrUnknownStage})
	}
	if stage.Len() == 0 {
		return nil
	}
	fromIndex = clamp(fromIndex, 0, stage.Len()-1)
	toIndex = clamp(toIndex, 0, stage.Len()-1)
	if fromIndex == toIndex {
		return nil
	}
	cmd := MoveCommand{CardID: stage.Cards[fromIndex].ID, From: stageID, FromIndex: fromIndex, To: stageID, ToIndex: toIndex}
	_, err := b.applyLocked(cmd)
	return err
}

// Apply executes a MoveCommand against the board and returns it with the indices
// resolved, ready to be inverted
func (b *Board) Apply(cmd MoveCommand) (MoveCommand, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyLocked(cmd)
}

// ApplyOptimistic captures a rollback copy of the board and applies cmd under the same
// lock, so no other mutation can land between the two
func (b *Board) ApplyOptimistic(cmd MoveCommand) (MoveCommand, *models.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rollback := b.snap.Clone()
	done, err := b.applyLocked(cmd)
	if err != nil {
		return cmd, nil, err
	}
	return done, rollback, nil
}

// applyLocked runs cmd on the live snapshot. The caller holds b.mu.
func (b *Board) applyLocked(cmd MoveCommand) (MoveCommand, error) {
	done, err := cmd.Apply(b.snap)
	if err != nil {
		return cmd, b.violation(err)
	}
	b.version++
	return done, nil
}

// violation logs invariant errors loudly; they point at a caller bug
func (b *Board) violation(err error) error {
	b.logger.Error("pipeline invariant violation", "error", err)
	return err
}

// CommitMove persists the card's new stage. Intra-stage order is never sent.
func (b *Board) CommitMove(ctx context.Context, cardID types.OpportunityID, to types.StageID) error {
	if b.backend == nil {
		return ErrNoBackend
	}
	if err := b.backend.MoveOpportunity(ctx, cardID, to); err != nil {
		return fmt.Errorf("failed to move card %d to stage %d: %w", cardID, to, err)
	}
	return nil
}
