package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/dashboard"
	"github.com/thenoetrevino/funil/internal/drag"
	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/tui/state"
	"github.com/thenoetrevino/funil/internal/types"
)

// fakeBackend serves a fixed server board and counts moves
type fakeBackend struct {
	mu      sync.Mutex
	server  *models.Snapshot
	moveErr error
	block   chan struct{}
	moves   int
}

func (f *fakeBackend) Pipeline(ctx context.Context, seller types.SellerID) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
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

func (f *fakeBackend) moveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moves
}

func threeStages() *models.Snapshot {
	return &models.Snapshot{Stages: []*models.Stage{
		{ID: 1, Label: "Novo", Cards: []models.Card{
			{ID: 1, Title: "Contrato anual", ClientName: "Padaria Central", EstimatedValue: 1200},
			{ID: 2, Title: "Renovação", ClientName: "Mercado Sol", EstimatedValue: 800},
		}},
		{ID: 2, Label: "Em Negociação", Cards: []models.Card{{ID: 3, Title: "Expansão", ClientName: "Hotel Mar"}}},
		{ID: 3, Label: "Fechado"},
	}}
}

func setupModel(t *testing.T, fb *fakeBackend) *Model {
	t.Helper()
	if fb.server == nil {
		fb.server = threeStages()
	}
	board := pipeline.NewBoard(fb, 1, pipeline.WithSnapshot(threeStages()))
	center := notify.NewCenter(0)
	m := NewModel(context.Background(), Deps{
		Board:      board,
		Controller: drag.NewController(board, center),
		Notifier:   center,
		Config:     config.Default(),
		Seller:     1,
	})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	t.Cleanup(m.Shutdown)
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func keyMsg(k string) tea.KeyPressMsg {
	switch k {
	case "space":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeySpace})
	case "enter":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
	case "esc":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeyEsc})
	case "tab":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeyTab})
	case "right":
		return tea.KeyPressMsg(tea.Key{Code: tea.KeyRight})
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg(tea.Key{Text: k, Code: r})
}

func stageCards(m *Model, id types.StageID) []types.OpportunityID {
	out := []types.OpportunityID{}
	for _, c := range m.Board.Snapshot().Stage(id).Cards {
		out = append(out, c.ID)
	}
	return out
}

func latest(t *testing.T, center *notify.Center) notify.Notification {
	t.Helper()
	n, ok := center.Latest()
	require.True(t, ok, "expected a notification")
	return n
}

func TestNavigation_StaysInBounds(t *testing.T) {
	m := setupModel(t, &fakeBackend{})

	press(m, "l", "right")
	assert.Equal(t, 2, m.UiState.SelectedColumn())

	press(m, "l")
	assert.Equal(t, 2, m.UiState.SelectedColumn(), "no column past the last stage")

	press(m, "h", "h", "h")
	assert.Equal(t, 0, m.UiState.SelectedColumn())

	press(m, "j", "j", "j")
	assert.Equal(t, 1, m.UiState.SelectedCard(), "cursor stops on the last card")

	press(m, "l")
	assert.Equal(t, 0, m.UiState.SelectedCard(), "cursor clamps to the shorter stage")
}

func TestDrag_DropOnCardInOtherStage(t *testing.T) {
	fb := &fakeBackend{}
	m := setupModel(t, fb)

	press(m, "space")
	require.Equal(t, state.DragMode, m.UiState.Mode())
	assert.Equal(t, types.OpportunityID(1), m.Controller.Session().CardID)

	press(m, "l", "enter")
	assert.Equal(t, state.NormalMode, m.UiState.Mode())

	// applied before the server answers
	assert.Equal(t, []types.OpportunityID{2}, stageCards(m, 1))
	assert.Equal(t, []types.OpportunityID{1, 3}, stageCards(m, 2))

	// the cursor follows the card
	assert.Equal(t, 1, m.UiState.SelectedColumn())
	assert.Equal(t, 0, m.UiState.SelectedCard())

	m.Controller.Wait()
	assert.Equal(t, 1, fb.moveCount())
	assert.Equal(t, notify.LevelSuccess, latest(t, m.Notifier).Level)
}

func TestDrag_DropAfterLastCardAppends(t *testing.T) {
	fb := &fakeBackend{}
	m := setupModel(t, fb)

	press(m, "space", "l", "j", "j", "enter")
	assert.Equal(t, []types.OpportunityID{3, 1}, stageCards(m, 2))
	m.Controller.Wait()
}

func TestDrag_DropOnEmptyStage(t *testing.T) {
	fb := &fakeBackend{}
	m := setupModel(t, fb)

	press(m, "space", "l", "l", "enter")
	assert.Equal(t, []types.OpportunityID{1}, stageCards(m, 3))
	m.Controller.Wait()
	assert.Equal(t, 1, fb.moveCount())
}

func TestDrag_ReorderWithinStageIsLocal(t *testing.T) {
	fb := &fakeBackend{}
	m := setupModel(t, fb)

	press(m, "space", "j", "j")
	col, idx := m.UiState.DropCursor()
	assert.Equal(t, 0, col)
	assert.Equal(t, 1, idx, "origin stage cursor stops on its last card")

	press(m, "enter")
	assert.Equal(t, []types.OpportunityID{2, 1}, stageCards(m, 1))
	assert.Equal(t, 1, m.UiState.SelectedCard())

	m.Controller.Wait()
	assert.Equal(t, 0, fb.moveCount())
}

func TestDrag_CancelLeavesBoard(t *testing.T) {
	fb := &fakeBackend{}
	m := setupModel(t, fb)

	press(m, "space", "l", "esc")
	assert.Equal(t, state.NormalMode, m.UiState.Mode())
	assert.Equal(t, drag.Idle, m.Controller.State())
	assert.Equal(t, []types.OpportunityID{1, 2}, stageCards(m, 1))
	assert.Equal(t, []types.OpportunityID{3}, stageCards(m, 2))
	assert.Equal(t, 0, fb.moveCount())
}

func TestDrag_RejectedMoveRollsBack(t *testing.T) {
	fb := &fakeBackend{moveErr: errors.New("boom")}
	m := setupModel(t, fb)

	press(m, "space", "l", "enter")
	m.Controller.Wait()

	assert.Equal(t, []types.OpportunityID{1, 2}, stageCards(m, 1))
	assert.Equal(t, []types.OpportunityID{3}, stageCards(m, 2))
	assert.Equal(t, notify.LevelError, latest(t, m.Notifier).Level)

	// the notification ping re-clamps the cursor onto an existing card
	m.Update(NotificationMsg{})
	assert.Equal(t, 1, m.UiState.SelectedColumn())
	assert.Equal(t, 0, m.UiState.SelectedCard())
}

func TestDrag_CardSavingCannotBeGrabbed(t *testing.T) {
	fb := &fakeBackend{block: make(chan struct{})}
	m := setupModel(t, fb)

	press(m, "space", "l", "enter")
	require.True(t, m.Controller.Pending(1))
	assert.Contains(t, m.View().Content, "Pipeline ⟳ 1")

	press(m, "space")
	assert.Equal(t, state.NormalMode, m.UiState.Mode())
	n := latest(t, m.Notifier)
	assert.Equal(t, notify.LevelWarning, n.Level)
	assert.Contains(t, n.Message, "still saving")

	close(fb.block)
	m.Controller.Wait()
	assert.False(t, m.Controller.Pending(1))
	assert.NotContains(t, m.View().Content, "⟳")
}

func TestNudge_SwapsWithNeighbor(t *testing.T) {
	fb := &fakeBackend{}
	m := setupModel(t, fb)

	press(m, "J")
	assert.Equal(t, []types.OpportunityID{2, 1}, stageCards(m, 1))
	assert.Equal(t, 1, m.UiState.SelectedCard())

	press(m, "J")
	assert.Equal(t, []types.OpportunityID{2, 1}, stageCards(m, 1), "already last")

	press(m, "K")
	assert.Equal(t, []types.OpportunityID{1, 2}, stageCards(m, 1))
	assert.Equal(t, 0, fb.moveCount())
}

func TestHelpMode_AnyKeyCloses(t *testing.T) {
	m := setupModel(t, &fakeBackend{})

	press(m, "?")
	assert.Equal(t, state.HelpMode, m.UiState.Mode())
	assert.NotEmpty(t, m.View().Content)

	press(m, "x")
	assert.Equal(t, state.NormalMode, m.UiState.Mode())
}

func TestQuit(t *testing.T) {
	m := setupModel(t, &fakeBackend{})

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestToggleDashboard_WithoutAggregator(t *testing.T) {
	m := setupModel(t, &fakeBackend{})

	press(m, "tab")
	assert.Equal(t, state.DashboardTab, m.UiState.Tab())
	assert.Contains(t, m.View().Content, "Loading dashboard")

	// board keys are inert on the dashboard
	press(m, "l")
	assert.Equal(t, 0, m.UiState.SelectedColumn())

	press(m, "tab")
	assert.Equal(t, state.BoardTab, m.UiState.Tab())
}

func TestBoardLoadedMsg_ErrorNotifies(t *testing.T) {
	m := setupModel(t, &fakeBackend{})

	m.Update(BoardLoadedMsg{Err: errors.New("connection refused")})
	n := latest(t, m.Notifier)
	assert.Equal(t, notify.LevelError, n.Level)
	assert.Contains(t, n.Message, "Could not load pipeline")
}

func TestView_RendersBoard(t *testing.T) {
	m := setupModel(t, &fakeBackend{})

	out := m.View().Content
	assert.Contains(t, out, "Pipeline")
	assert.Contains(t, out, "Novo (2)")
	assert.Contains(t, out, "Contrato anual")
	assert.Contains(t, out, "NORMAL")

	press(m, "space", "l")
	out = m.View().Content
	assert.Contains(t, out, "drop here")
	assert.Contains(t, out, "DRAG")
	press(m, "esc")
}

func TestView_WaitsForSize(t *testing.T) {
	board := pipeline.NewBoard(&fakeBackend{server: threeStages()}, 1)
	center := notify.NewCenter(0)
	m := NewModel(context.Background(), Deps{
		Board:      board,
		Controller: drag.NewController(board, center),
		Notifier:   center,
	})
	t.Cleanup(m.Shutdown)

	assert.True(t, strings.HasPrefix(m.View().Content, "Loading"))
}

func TestDashboardMsg_StoresFetch(t *testing.T) {
	m := setupModel(t, &fakeBackend{})
	press(m, "tab")

	cmd := m.Update(DashboardMsg{Dashboard: dashboard.Dashboard{}})
	assert.Nil(t, cmd, "no refresher, nothing to listen for")
	require.NotNil(t, m.Dashboard)
	assert.NotContains(t, m.View().Content, "Loading dashboard")
}
