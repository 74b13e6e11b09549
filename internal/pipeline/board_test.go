package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// fakeBackend records moves and serves a fixed snapshot
type fakeBackend struct {
	mu      sync.Mutex
	snap    *models.Snapshot
	loadErr error
	moveErr error
	moves   []MoveCommand
}

func (f *fakeBackend) Pipeline(ctx context.Context, seller types.SellerID) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snap.Clone(), nil
}

func (f *fakeBackend) MoveOpportunity(ctx context.Context, id types.OpportunityID, stage types.StageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, MoveCommand{CardID: id, To: stage})
	return f.moveErr
}

// board builds a snapshot from stage id -> card ids, in stage order 1..n
func board(stages ...[]int) *models.Snapshot {
	snap := &models.Snapshot{}
	for i, ids := range stages {
		stage := &models.Stage{ID: types.StageID(i + 1), Label: "stage", Cards: []models.Card{}}
		for _, id := range ids {
			stage.Cards = append(stage.Cards, models.Card{ID: types.OpportunityID(id), EstimatedValue: float64(id)})
		}
		snap.Stages = append(snap.Stages, stage)
	}
	return snap
}

// ids returns the card ids of one stage of the board
func ids(t *testing.T, b *Board, stage types.StageID) []int {
	t.Helper()
	s := b.Snapshot().Stage(stage)
	require.NotNil(t, s)
	out := []int{}
	for _, c := range s.Cards {
		out = append(out, int(c.ID))
	}
	return out
}

// ============================================================================
// MOVES
// ============================================================================

func TestMoveCard_AcrossStages(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1, 2, 3}, []int{4, 5})))

	require.NoError(t, b.MoveCard(2, 1, 2, 1))

	assert.Equal(t, []int{1, 3}, ids(t, b, 1))
	assert.Equal(t, []int{4, 2, 5}, ids(t, b, 2))
}

// TestMoveCard_ClampsIndex verifies an out-of-range index appends at the end
func TestMoveCard_ClampsIndex(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{9}, []int{1, 2, 3})))

	require.NoError(t, b.MoveCard(9, 1, 2, 999))
	assert.Equal(t, []int{1, 2, 3, 9}, ids(t, b, 2))

	require.NoError(t, b.MoveCard(9, 2, 1, -5))
	assert.Equal(t, []int{9}, ids(t, b, 1))
}

func TestMoveCard_InvariantViolations(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1}, []int{2})))
	before := b.Snapshot()

	tests := []struct {
		name     string
		card     types.OpportunityID
		from, to types.StageID
		want     error
	}{
		{"card not in source stage", 2, 1, 2, ErrUnknownCard},
		{"unknown source stage", 1, 7, 2, ErrUnknownStage},
		{"unknown destination stage", 1, 1, 7, ErrUnknownStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.MoveCard(tt.card, tt.from, tt.to, 0)
			require.Error(t, err)
			assert.True(t, IsInvariantViolation(err))
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, before, b.Snapshot(), "failed moves must not mutate the board")
}

func TestReorderWithinStage(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1, 2, 3, 4})))

	require.NoError(t, b.ReorderWithinStage(1, 0, 2))
	assert.Equal(t, []int{2, 3, 1, 4}, ids(t, b, 1))

	require.NoError(t, b.ReorderWithinStage(1, 3, -1))
	assert.Equal(t, []int{4, 2, 3, 1}, ids(t, b, 1))

	// clamped to the last index on both sides
	v := b.Version()
	require.NoError(t, b.ReorderWithinStage(1, 50, 99))
	assert.Equal(t, v, b.Version())
	assert.Equal(t, []int{4, 2, 3, 1}, ids(t, b, 1))

	assert.True(t, IsInvariantViolation(b.ReorderWithinStage(9, 0, 1)))
}

func TestMoveCommand_InvertRestores(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1, 2, 3}, []int{4})))
	before := b.Snapshot()

	done, err := b.Apply(MoveCommand{CardID: 2, From: 1, To: 2, ToIndex: 999})
	require.NoError(t, err)
	assert.Equal(t, 1, done.FromIndex)
	assert.Equal(t, 1, done.ToIndex)

	_, err = b.Apply(done.Invert())
	require.NoError(t, err)
	assert.Equal(t, before, b.Snapshot())
}

func TestApplyOptimistic_ReturnsPreMoveCopy(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1, 2}, []int{})))
	before := b.Snapshot()

	_, rollback, err := b.ApplyOptimistic(MoveCommand{CardID: 1, From: 1, To: 2})
	require.NoError(t, err)
	assert.Equal(t, before, rollback)
	assert.Equal(t, []int{1}, ids(t, b, 2))

	_, rollback, err = b.ApplyOptimistic(MoveCommand{CardID: 99, From: 1, To: 2})
	assert.Error(t, err)
	assert.Nil(t, rollback)
}

// TestInvariant_RandomSequences applies random moves and reorders and checks that
// every card stays in exactly one stage
func TestInvariant_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1, 2, 3}, []int{4, 5}, []int{}, []int{6, 7, 8, 9})))
	total := b.Snapshot().CardCount()

	for i := 0; i < 2000; i++ {
		snap := b.Snapshot()
		stage := snap.Stages[rng.IntN(len(snap.Stages))]
		if stage.Len() == 0 {
			continue
		}
		card := stage.Cards[rng.IntN(stage.Len())]
		if rng.IntN(2) == 0 {
			to := snap.Stages[rng.IntN(len(snap.Stages))]
			require.NoError(t, b.MoveCard(card.ID, stage.ID, to.ID, rng.IntN(12)-2))
		} else {
			require.NoError(t, b.ReorderWithinStage(stage.ID, rng.IntN(12)-2, rng.IntN(12)-2))
		}

		after := b.Snapshot()
		require.NoError(t, after.Validate())
		require.Equal(t, total, after.CardCount())
	}
}

// ============================================================================
// LOAD / REPLACE / COMMIT
// ============================================================================

func TestReplaceWith_IsolatesCaller(t *testing.T) {
	b := NewBoard(nil, 1)
	assert.False(t, b.Loaded())

	snap := board([]int{1})
	b.ReplaceWith(snap)
	snap.Stages[0].Cards[0].Title = "mutated"

	assert.True(t, b.Loaded())
	card, ok := b.Card(1)
	require.True(t, ok)
	assert.Empty(t, card.Title)
}

func TestLoad(t *testing.T) {
	fb := &fakeBackend{snap: board([]int{1}, []int{2, 3})}
	b := NewBoard(fb, 5, WithSnapshot(board([]int{3, 2, 1})))

	_, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, ids(t, b, 2))

	fb.loadErr = errors.New("offline")
	_, err = b.Load(context.Background())
	assert.ErrorIs(t, err, fb.loadErr)
	assert.Equal(t, []int{2, 3}, ids(t, b, 2), "a failed load keeps the current board")
}

func TestCommitMove(t *testing.T) {
	fb := &fakeBackend{}
	b := NewBoard(fb, 1)

	require.NoError(t, b.CommitMove(context.Background(), 7, 2))
	require.Len(t, fb.moves, 1)
	assert.Equal(t, MoveCommand{CardID: 7, To: 2}, fb.moves[0])

	fb.moveErr = errors.New("rejected")
	assert.ErrorIs(t, b.CommitMove(context.Background(), 7, 3), fb.moveErr)

	assert.ErrorIs(t, NewBoard(nil, 1).CommitMove(context.Background(), 1, 1), ErrNoBackend)
}

func TestStats(t *testing.T) {
	b := NewBoard(nil, 1, WithSnapshot(board([]int{1, 2}, []int{10})))
	stats := b.Stats()

	assert.Equal(t, 3, stats.TotalCards)
	assert.InDelta(t, 13.0, stats.TotalValue, 0.001)
	require.Len(t, stats.Stages, 2)
	assert.Equal(t, 2, stats.Stages[0].Cards)
	assert.InDelta(t, 3.0, stats.Stages[0].Value, 0.001)
}
