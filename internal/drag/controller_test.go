package drag

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/funil/internal/api"
	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// fakeBackend serves a fixed server-side board and records move calls
type fakeBackend struct {
	mu      sync.Mutex
	server  *models.Snapshot
	moveErr error
	loadErr error
	block   chan struct{} // when set, moves wait on it
	moves   int
	loads   int
}

func (f *fakeBackend) Pipeline(ctx context.Context, seller types.SellerID) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.server.Clone(), nil
}

func (f *fakeBackend) MoveOpportunity(ctx context.Context, id types.OpportunityID, stage types.StageID) error {
	f.mu.Lock()
	f.moves++
	block, err := f.block, f.moveErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeBackend) counts() (moves, loads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moves, f.loads
}

// twoStages builds "Novo" with cards 1 and 2 and "Em Negociação" with card 3
func twoStages() *models.Snapshot {
	return &models.Snapshot{Stages: []*models.Stage{
		{ID: 1, Label: "Novo", Cards: []models.Card{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}},
		{ID: 2, Label: "Em Negociação", Cards: []models.Card{{ID: 3, Title: "C"}}},
	}}
}

func setup(t *testing.T, fb *fakeBackend, opts ...Option) (*Controller, *pipeline.Board, *notify.Center) {
	t.Helper()
	board := pipeline.NewBoard(fb, 1, pipeline.WithSnapshot(twoStages()))
	center := notify.NewCenter(0)
	return NewController(board, center, opts...), board, center
}

func cardIDs(snap *models.Snapshot, stage types.StageID) []types.OpportunityID {
	out := []types.OpportunityID{}
	for _, c := range snap.Stage(stage).Cards {
		out = append(out, c.ID)
	}
	return out
}

// ============================================================================
// STATE MACHINE
// ============================================================================

func TestBegin_Rejections(t *testing.T) {
	c, _, _ := setup(t, &fakeBackend{server: twoStages()})

	assert.ErrorIs(t, c.Begin(99), ErrUnknownCard)
	assert.Equal(t, Idle, c.State())

	require.NoError(t, c.Begin(1))
	assert.ErrorIs(t, c.Begin(2), ErrDragInProgress)
	assert.Equal(t, types.OpportunityID(1), c.Session().CardID)
}

func TestCancel_LeavesBoardUntouched(t *testing.T) {
	var seen []Transition
	fb := &fakeBackend{server: twoStages()}
	c, board, _ := setup(t, fb, WithObserver(func(tr Transition) { seen = append(seen, tr) }))
	before := board.Snapshot()

	require.NoError(t, c.Begin(1))
	require.NoError(t, c.Hover(Target{StageID: 2}))
	c.Cancel()

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, before, board.Snapshot())
	assert.Equal(t, []Transition{
		{From: Idle, To: Dragging, CardID: 1},
		{From: Dragging, To: Cancelled, CardID: 1},
		{From: Cancelled, To: Idle, CardID: 1},
	}, seen)
	moves, _ := fb.counts()
	assert.Zero(t, moves)
}

func TestDrop_WithoutTargetCancels(t *testing.T) {
	c, _, _ := setup(t, &fakeBackend{server: twoStages()})

	_, err := c.Drop(context.Background())
	assert.ErrorIs(t, err, ErrNotDragging)

	require.NoError(t, c.Begin(1))
	outcome, err := c.Drop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Equal(t, Idle, c.State())
}

// ============================================================================
// DROPS
// ============================================================================

func TestDrop_NoopMakesNoRequest(t *testing.T) {
	tests := []struct {
		name   string
		card   types.OpportunityID
		target Target
	}{
		{"onto itself", 1, Target{StageID: 1, CardID: 1}},
		{"last card onto its own stage", 2, Target{StageID: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{server: twoStages()}
			c, board, _ := setup(t, fb)
			before := board.Snapshot()

			require.NoError(t, c.Begin(tt.card))
			require.NoError(t, c.Hover(tt.target))
			outcome, err := c.Drop(context.Background())
			c.Wait()

			require.NoError(t, err)
			assert.Equal(t, OutcomeNoop, outcome)
			assert.Equal(t, before, board.Snapshot())
			moves, loads := fb.counts()
			assert.Zero(t, moves)
			assert.Zero(t, loads)
		})
	}
}

func TestDrop_SameStageReorderStaysLocal(t *testing.T) {
	fb := &fakeBackend{server: twoStages()}
	c, board, _ := setup(t, fb)

	require.NoError(t, c.Begin(2))
	require.NoError(t, c.Hover(Target{StageID: 1, CardID: 1}))
	outcome, err := c.Drop(context.Background())
	c.Wait()

	require.NoError(t, err)
	assert.Equal(t, OutcomeReordered, outcome)
	assert.Equal(t, []types.OpportunityID{2, 1}, cardIDs(board.Snapshot(), 1))
	moves, _ := fb.counts()
	assert.Zero(t, moves)
}

func TestDrop_CrossStageCommits(t *testing.T) {
	fb := &fakeBackend{server: twoStages()}
	c, board, center := setup(t, fb)

	require.NoError(t, c.Begin(1))
	require.NoError(t, c.Hover(Target{StageID: 2, CardID: 3}))
	outcome, err := c.Drop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, outcome)

	// optimistic: visible before the commit settles
	assert.Equal(t, []types.OpportunityID{1, 3}, cardIDs(board.Snapshot(), 2))
	assert.Equal(t, Idle, c.State())

	c.Wait()
	assert.Equal(t, []types.OpportunityID{1, 3}, cardIDs(board.Snapshot(), 2))
	moves, loads := fb.counts()
	assert.Equal(t, 1, moves)
	assert.Zero(t, loads)

	latest, ok := center.Latest()
	require.True(t, ok)
	assert.Equal(t, notify.LevelSuccess, latest.Level)
	assert.Contains(t, latest.Message, "Em Negociação")
}

func TestDrop_FailureRollsBackAndReloads(t *testing.T) {
	server := twoStages()
	server.Stage(2).Cards = append(server.Stage(2).Cards, models.Card{ID: 4, Title: "D"})
	fb := &fakeBackend{server: server, moveErr: &gateway.ServerRejection{Status: 409, Message: "etapa bloqueada"}}
	c, board, center := setup(t, fb)

	require.NoError(t, c.Begin(1))
	require.NoError(t, c.Hover(Target{StageID: 2}))
	_, err := c.Drop(context.Background())
	require.NoError(t, err)
	c.Wait()

	assert.Equal(t, server, board.Snapshot(), "the board converges to the server's answer")
	moves, loads := fb.counts()
	assert.Equal(t, 1, moves)
	assert.Equal(t, 1, loads)

	all := center.All()
	require.Len(t, all, 1)
	assert.Equal(t, notify.LevelError, all[0].Level)
	assert.Contains(t, all[0].Message, "etapa bloqueada")
	assert.False(t, c.Pending(1))
}

func TestDrop_InvertPolicyKeepsOtherMoves(t *testing.T) {
	release := make(chan struct{})
	fb := &fakeBackend{server: twoStages(), moveErr: errors.New("offline"), block: release}
	c, board, _ := setup(t, fb, WithRollbackPolicy(RollbackInvert))

	require.NoError(t, c.Begin(1))
	require.NoError(t, c.Hover(Target{StageID: 2}))
	_, err := c.Drop(context.Background())
	require.NoError(t, err)

	// a move made while the commit is in flight survives the inverse move
	require.NoError(t, board.MoveCard(3, 2, 1, 0))

	fb.mu.Lock()
	fb.loadErr = errors.New("still offline") // only the rollback is observed
	fb.mu.Unlock()
	close(release)
	c.Wait()

	snap := board.Snapshot()
	assert.Equal(t, []types.OpportunityID{1, 3, 2}, cardIDs(snap, 1))
	assert.Empty(t, cardIDs(snap, 2))
}

func TestBegin_RejectsCardWithPendingCommit(t *testing.T) {
	release := make(chan struct{})
	fb := &fakeBackend{server: twoStages(), block: release}
	c, _, _ := setup(t, fb)

	require.NoError(t, c.Begin(1))
	require.NoError(t, c.Hover(Target{StageID: 2}))
	_, err := c.Drop(context.Background())
	require.NoError(t, err)

	assert.True(t, c.Pending(1))
	assert.ErrorIs(t, c.Begin(1), ErrCommitPending)

	// other cards are free to move while the first commit is in flight
	require.NoError(t, c.Begin(2))
	require.NoError(t, c.Hover(Target{StageID: 2}))
	outcome, err := c.Drop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeMoved, outcome)
	assert.Equal(t, 2, c.PendingCommits())

	close(release)
	c.Wait()
	assert.False(t, c.Pending(1))
	assert.Zero(t, c.PendingCommits())
	require.NoError(t, c.Begin(1))
}

// ============================================================================
// END TO END
// ============================================================================

// TestScenario_RejectedMoveOverHTTP drags card 1 from "Novo" to "Em Negociação"
// against a backend that refuses the move and reports card 1 still in "Novo"
func TestScenario_RejectedMoveOverHTTP(t *testing.T) {
	const pipelineJSON = `{"success":true,"data":[
		{"etapa_id":1,"nome":"Novo","items":[{"oportunidade_id":1,"titulo":"A"},{"oportunidade_id":2,"titulo":"B"}]},
		{"etapa_id":2,"nome":"Em Negociação","items":[{"oportunidade_id":3,"titulo":"C"}]}]}`

	var puts, gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == api.PathPipeline:
			gets.Add(1)
			_, _ = io.WriteString(w, pipelineJSON)
		case r.Method == http.MethodPut && r.URL.Path == api.MovePath(1):
			puts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"success":false,"message":"falha"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := api.New(gateway.NewClient(srv.URL, gateway.NewSession("acme", "tok")))
	board := pipeline.NewBoard(client, 1)
	ctx := context.Background()
	expected, err := board.Load(ctx)
	require.NoError(t, err)

	center := notify.NewCenter(0)
	c := NewController(board, center)

	require.NoError(t, c.Begin(1))
	require.NoError(t, c.Hover(Target{StageID: 2}))
	outcome, err := c.Drop(ctx)
	require.NoError(t, err)
	require.Equal(t, OutcomeMoved, outcome)
	c.Wait()

	assert.Equal(t, int32(1), puts.Load(), "exactly one move request")
	assert.Equal(t, int32(2), gets.Load(), "initial load plus one reload")
	assert.Equal(t, expected, board.Snapshot())

	latest, ok := center.Latest()
	require.True(t, ok)
	assert.Equal(t, notify.LevelError, latest.Level)
}
