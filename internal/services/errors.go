// internal/services/errors.go
package services

import "errors"

// Service error taxonomy. Handlers translate these with errors.Is; none are
// swallowed except notification failures, which are logged and dropped.
var (
	ErrAuctionNotFound = errors.New("no auction found with the provided ID")
	ErrAuctionInactive = errors.New("auction is not active")
	ErrAuctionFinished = errors.New("auction is already finished")
	ErrForbidden       = errors.New("only the creator can perform this action")

	ErrSelfBidForbidden = errors.New("you cannot bid on your own auction")
	ErrBidTooLow        = errors.New("bid must be higher than current highest bid")
	ErrInvalidBidAmount = errors.New("bid amount must be positive")

	ErrProductNotFound        = errors.New("product not found")
	ErrProductAlreadyAssigned = errors.New("auction already has a product assigned")
	ErrHasActiveBids          = errors.New("cannot delete auction with active bids")

	ErrEndDateInPast = errors.New("end date must be in the future")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyInUse  = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
