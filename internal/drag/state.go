package drag

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/funil/internal/types"
)

// Drag-related errors
var (
	ErrDragInProgress = errors.New("a drag is already in progress")
	ErrCommitPending  = errors.New("card has a move waiting for the server")
	ErrUnknownCard    = errors.New("card is not on the board")
	ErrNotDragging    = errors.New("no drag in progress")
)

// State is the drag session state machine:
// Idle -> Dragging -> (Dropped | Cancelled) -> Idle
type State int

const (
	Idle State = iota
	Dragging
	Dropped
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Dropped:
		return "dropped"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is what a Drop did to the board
type Outcome int

const (
	// OutcomeNoop means the card was dropped where it started
	OutcomeNoop Outcome = iota
	// OutcomeReordered means the card moved inside its stage; the order is local only
	OutcomeReordered
	// OutcomeMoved means the card changed stage and a commit was started
	OutcomeMoved
	// OutcomeCancelled means the drop had no target
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeReordered:
		return "reordered"
	case OutcomeMoved:
		return "moved"
	case OutcomeCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// RollbackPolicy selects how a failed commit is undone before the reload
type RollbackPolicy int

const (
	// RollbackSnapshot restores the copy taken before the move
	RollbackSnapshot RollbackPolicy = iota
	// RollbackInvert applies the inverse move, keeping unrelated moves made since
	RollbackInvert
)

// ParseRollbackPolicy maps the config value to a policy
func ParseRollbackPolicy(s string) (RollbackPolicy, error) {
	switch s {
	case "", "snapshot":
		return RollbackSnapshot, nil
	case "invert":
		return RollbackInvert, nil
	}
	return RollbackSnapshot, fmt.Errorf("unknown rollback policy %q", s)
}

// Target is what the pointer hovers over: a card, or the empty area of a stage.
// A non-zero CardID makes it a card target.
type Target struct {
	StageID types.StageID
	CardID  types.OpportunityID
}

// IsCard reports whether the target is a card
func (t Target) IsCard() bool {
	return t.CardID != 0
}

// Session is the active drag as seen by renderers
type Session struct {
	State     State
	CardID    types.OpportunityID
	Origin    types.StageID
	Hover     Target
	HasTarget bool
}

// Transition is reported to the observer on every state change
type Transition struct {
	From   State
	To     State
	CardID types.OpportunityID
}
