package pipeline

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/funil/internal/types"
)

// Board-related errors
var (
	ErrNotLoaded    = errors.New("pipeline not loaded")
	ErrUnknownStage = errors.New("unknown stage")
	ErrUnknownCard  = errors.New("unknown card")
	ErrNoBackend    = errors.New("pipeline has no backend")
)

// InvariantViolation reports a mutation that would break the board invariant, such as
// moving a card out of a stage that does not hold it. It signals a caller bug.
type InvariantViolation struct {
	Op     string
	CardID types.OpportunityID
	Stage  types.StageID
	Err    error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s (card %d, stage %d): %v", e.Op, e.CardID, e.Stage, e.Err)
}

func (e *InvariantViolation) Unwrap() error {
	return e.Err
}

// IsInvariantViolation reports whether err is an *InvariantViolation
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
