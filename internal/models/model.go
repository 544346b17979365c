package models

import "time"

// ImageRef points at an already-uploaded auction image.
type ImageRef struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// BankTransfer holds an auctioneer's bank payout details.
type BankTransfer struct {
	BankAccountName   string `json:"bank_account_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankName          string `json:"bank_name"`
}

// Paypal holds an auctioneer's online payout address.
type Paypal struct {
	PaypalEmail string `json:"paypal_email"`
}

// PaymentMethods groups the payout instructions sent to auction winners.
type PaymentMethods struct {
	BankTransfer BankTransfer `json:"bank_transfer"`
	Paypal       Paypal       `json:"paypal"`
}

// User represents a participant in the marketplace. The core reads
// identity and payout fields and mutates the aggregate statistics.
type User struct {
	UserID           string         `json:"user_id"`
	UserName         string         `json:"user_name"`
	Email            string         `json:"email"`
	ProfileImage     string         `json:"profile_image"`
	PaymentMethods   PaymentMethods `json:"payment_methods"`
	MoneySpent       float64        `json:"money_spent"`
	AuctionsWon      int            `json:"auctions_won"`
	UnpaidCommission float64        `json:"unpaid_commission"`
}

// BidSummary is the denormalized per-auction view of a bidder's standing bid.
type BidSummary struct {
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	ProfileImage string  `json:"profile_image"`
	Amount       float64 `json:"amount"`
}

// Auction represents a timed auction listing.
//
// An auction has no persisted "active" state: it is scheduled until StartTime,
// biddable until EndTime, and eligible for settlement afterwards.
// CommissionCalculated flips true exactly once per lifecycle, when the
// settlement engine processes the auction; a republish resets it.
type Auction struct {
	AuctionID            string       `json:"auction_id"`
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Category             string       `json:"category"`
	Condition            string       `json:"condition"`
	StartingBid          float64      `json:"starting_bid"`
	CurrentBid           float64      `json:"current_bid"`
	StartTime            time.Time    `json:"start_time"`
	EndTime              time.Time    `json:"end_time"`
	Image                ImageRef     `json:"image"`
	CreatedBy            string       `json:"created_by"`
	HighestBidder        string       `json:"highest_bidder,omitempty"`
	CommissionCalculated bool         `json:"commission_calculated"`
	Bids                 []BidSummary `json:"bids"`
	CreatedAt            time.Time    `json:"created_at"`
}

// Bidder is the denormalized bidder identity carried on a ledger row.
type Bidder struct {
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	ProfileImage string `json:"profile_image"`
}

// Bid is a ledger row. At most one row exists per (bidder, auction) pair: a
// repeat bid by the same user updates Amount in place rather than appending.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	Bidder    Bidder    `json:"bidder"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Commission records the platform's cut owed by an auctioneer after a
// settled auction. The settlement path never mutates it afterwards.
type Commission struct {
	CommissionID string    `json:"commission_id"`
	UserID       string    `json:"user_id"`
	Amount       float64   `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
}
