package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNoBids          = errors.New("no bids found for auction")
)

// business logic errors
var (
	ErrInvalidAuction   = errors.New("invalid auction details")
	ErrBadSchedule      = errors.New("invalid auction schedule")
	ErrScheduleConflict = errors.New("overlapping auction for owner")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrBidTooLow        = errors.New("bid amount too low")
	ErrAuctionActive    = errors.New("auction is still active")
	ErrAuctionSettled   = errors.New("auction already settled")
	ErrBadCommission    = errors.New("invalid commission amount")
)
