package database

import "errors"

// Store errors
var (
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrStageNotFound       = errors.New("stage not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrSellerNotFound      = errors.New("seller not found")
)
