package models

import "errors"

// Snapshot validation errors
var (
	// ErrDuplicateCard indicates a card appears more than once on the board
	ErrDuplicateCard = errors.New("card appears in more than one position")

	// ErrDuplicateStage indicates two columns share an id
	ErrDuplicateStage = errors.New("duplicate stage id")

	// ErrMalformedSnapshot indicates a structurally broken snapshot
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrUnknownEnum indicates the backend sent a code this client does not know
	ErrUnknownEnum = errors.New("unknown enum value")
)
