package state

import "github.com/thenoetrevino/funil/internal/types"

// Mode represents the current interaction mode of the TUI.
// Each mode determines which keyboard shortcuts are active and what UI is displayed.
type Mode int

const (
	NormalMode Mode = iota // Default navigation mode
	DragMode               // A card is grabbed and follows the drop cursor
	HelpMode               // Displaying help screen
)

func (m Mode) String() string {
	switch m {
	case NormalMode:
		return "NORMAL"
	case DragMode:
		return "DRAG"
	case HelpMode:
		return "HELP"
	}
	return "UNKNOWN"
}

// Tab is the top-level view
type Tab int

const (
	BoardTab Tab = iota
	DashboardTab
)

// ColumnContentWidth is the width of a column's content area
const ColumnContentWidth = 30

// UIState manages the user interface state.
// This includes navigation (column/card selection), the drop cursor while dragging,
// viewport scrolling, terminal dimensions, and the current interaction mode.
type UIState struct {
	// selectedColumn is the index of the currently selected column
	selectedColumn int

	// selectedCard is the index of the selected card within the selected column
	selectedCard int

	// dropColumn and dropIndex locate the drop cursor in DragMode. dropIndex may
	// equal the column length, meaning the end of the column.
	dropColumn int
	dropIndex  int

	width  int
	height int

	mode Mode
	tab  Tab

	// viewportOffset is the index of the leftmost visible column
	viewportOffset int

	// viewportSize is the number of columns that fit on the screen
	viewportSize int

	// cardScrollOffsets tracks the vertical scroll offset for each column
	cardScrollOffsets map[types.StageID]int
}

// NewUIState creates a new UIState with default values.
func NewUIState() *UIState {
	return &UIState{
		mode:              NormalMode,
		tab:               BoardTab,
		viewportSize:      1, // Default to 1, will be recalculated when width is set
		cardScrollOffsets: make(map[types.StageID]int),
	}
}

// SelectedColumn returns the index of the currently selected column.
func (s *UIState) SelectedColumn() int {
	return s.selectedColumn
}

// SetSelectedColumn updates the selected column index.
func (s *UIState) SetSelectedColumn(index int) {
	s.selectedColumn = index
}

// SelectedCard returns the index of the currently selected card.
func (s *UIState) SelectedCard() int {
	return s.selectedCard
}

// SetSelectedCard updates the selected card index.
func (s *UIState) SetSelectedCard(index int) {
	s.selectedCard = index
}

// DropCursor returns the drop cursor position
func (s *UIState) DropCursor() (column, index int) {
	return s.dropColumn, s.dropIndex
}

// SetDropCursor moves the drop cursor
func (s *UIState) SetDropCursor(column, index int) {
	s.dropColumn = column
	s.dropIndex = index
}

// Width returns the current terminal width.
func (s *UIState) Width() int {
	return s.width
}

// SetWidth updates the terminal width and recalculates viewport size.
func (s *UIState) SetWidth(width int) {
	s.width = width
	s.calculateViewportSize()
}

// Height returns the current terminal height.
func (s *UIState) Height() int {
	return s.height
}

// SetHeight updates the terminal height.
func (s *UIState) SetHeight(height int) {
	s.height = height
}

// ContentHeight returns the available height for the main content area.
// This is terminal height minus tab bar and status bar, ensuring a minimum of 5.
func (s *UIState) ContentHeight() int {
	const tabBarHeight = 3    // bordered tabs
	const statusBarHeight = 2 // status bar + gap line
	return max(s.height-tabBarHeight-statusBarHeight, 5)
}

// Mode returns the current interaction mode.
func (s *UIState) Mode() Mode {
	return s.mode
}

// SetMode updates the current interaction mode.
func (s *UIState) SetMode(mode Mode) {
	s.mode = mode
}

// Tab returns the visible tab
func (s *UIState) Tab() Tab {
	return s.tab
}

// SetTab switches the visible tab
func (s *UIState) SetTab(tab Tab) {
	s.tab = tab
}

// ViewportOffset returns the index of the leftmost visible column.
func (s *UIState) ViewportOffset() int {
	return s.viewportOffset
}

// ViewportSize returns the number of columns that fit on screen.
func (s *UIState) ViewportSize() int {
	return s.viewportSize
}

// calculateViewportSize calculates how many columns can fit in the terminal width.
//
// Column layout:
//   - Content width: 30 characters
//   - Padding: 2 characters (1 on each side)
//   - Border: 2 characters (1 on each side)
//   - Spacing: 1 character (between columns)
//   - Total per column: 35 characters
func (s *UIState) calculateViewportSize() {
	if s.width == 0 {
		s.viewportSize = 1
		return
	}

	const columnWidth = ColumnContentWidth + 5
	const reservedWidth = 4 // margins and scroll indicators

	s.viewportSize = max(1, (s.width-reservedWidth)/columnWidth)
}

// EnsureColumnVisible adjusts the viewport so the given column is on screen.
func (s *UIState) EnsureColumnVisible(column int) {
	if column < s.viewportOffset {
		s.viewportOffset = column
	}
	if column >= s.viewportOffset+s.viewportSize {
		s.viewportOffset = column - s.viewportSize + 1
	}
}

// ClampViewport keeps the viewport within the column count after a resize or reload.
func (s *UIState) ClampViewport(columnsLen int) {
	if s.viewportOffset+s.viewportSize > columnsLen {
		s.viewportOffset = max(0, columnsLen-s.viewportSize)
	}
}

// CardScrollOffset returns the vertical scroll offset for a given column.
// Returns 0 if the column has no scroll offset set.
func (s *UIState) CardScrollOffset(stageID types.StageID) int {
	return s.cardScrollOffsets[stageID]
}

// EnsureCardVisible adjusts the scroll offset to ensure the given card index is visible.
//
// Parameters:
//   - stageID: the column containing the card
//   - index: index of the card within the column
//   - visibleCount: number of cards that can be displayed at once
func (s *UIState) EnsureCardVisible(stageID types.StageID, index int, visibleCount int) {
	offset := s.cardScrollOffsets[stageID]

	// If selection is above visible area, scroll up
	if index < offset {
		offset = index
	}

	// If selection is below visible area, scroll down
	if index >= offset+visibleCount {
		offset = index - visibleCount + 1
	}
	s.cardScrollOffsets[stageID] = max(0, offset)
}

// ResetSelection resets both column and card selection to zero.
func (s *UIState) ResetSelection() {
	s.selectedColumn = 0
	s.selectedCard = 0
	s.viewportOffset = 0
}
