package bidding

import (
	"errors"
	"fmt"

	"auction-platform/internal/auctionerrors"
	"auction-platform/internal/clock"
	"auction-platform/internal/locks"
	"auction-platform/internal/models"
	"auction-platform/internal/repository"
	"auction-platform/utils"
)

// BiddingService is the bid ledger: one standing bid per bidder per auction,
// with amounts that must strictly exceed the auction's current bid.
type BiddingService struct {
	repo  repository.AuctionDB
	users repository.UserDirectory
	clk   clock.Clock
	locks *locks.KeyedMutex
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, users repository.UserDirectory, clk clock.Clock, km *locks.KeyedMutex) *BiddingService {
	return &BiddingService{
		repo:  repo,
		users: users,
		clk:   clk,
		locks: km,
	}
}

// PlaceBid validates and records a user's bid on an auction, returning the
// auction's new current bid. A repeat bid by the same user updates their
// existing ledger row and embedded summary instead of appending.
func (s *BiddingService) PlaceBid(auctionID, bidderID string, amount float64) (float64, error) {
	if auctionID == "" || bidderID == "" {
		return 0, fmt.Errorf("service: %w - missing auctionID or bidderID", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("service: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}

	// The lock serializes this read-modify-write against concurrent bids,
	// settlement, and republish for the same auction.
	unlock := s.locks.Lock(auctionID)
	defer unlock()

	a, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	if a.CommissionCalculated {
		return 0, fmt.Errorf("service: %w - auction %s", auctionerrors.ErrAuctionSettled, auctionID)
	}
	if amount <= a.CurrentBid {
		return 0, fmt.Errorf("service: %w - current highest bid is %.2f", auctionerrors.ErrBidTooLow, a.CurrentBid)
	}
	if amount < a.StartingBid {
		return 0, fmt.Errorf("service: %w - starting bid is %.2f", auctionerrors.ErrBidTooLow, a.StartingBid)
	}

	existing, err := s.repo.GetBidByBidder(auctionID, bidderID)
	switch {
	case err == nil:
		if err := s.raiseBid(&a, existing, amount); err != nil {
			return 0, err
		}
	case errors.Is(err, auctionerrors.ErrNoBids):
		if err := s.firstBid(&a, bidderID, amount); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("service: failed to check existing bid for user %s: %w", bidderID, err)
	}

	a.CurrentBid = amount
	if err := s.repo.UpdateAuction(a); err != nil {
		return 0, fmt.Errorf("service: failed to update auction %s: %w", auctionID, err)
	}
	return a.CurrentBid, nil
}

// raiseBid updates the bidder's ledger row and their embedded summary in place.
func (s *BiddingService) raiseBid(a *models.Auction, row models.Bid, amount float64) error {
	row.Amount = amount
	if err := s.repo.UpdateBid(row); err != nil {
		return fmt.Errorf("service: failed to update bid %s: %w", row.BidID, err)
	}
	for i := range a.Bids {
		if a.Bids[i].UserID == row.Bidder.UserID {
			a.Bids[i].Amount = amount
			break
		}
	}
	return nil
}

// firstBid creates a ledger row and appends the bidder's embedded summary.
func (s *BiddingService) firstBid(a *models.Auction, bidderID string, amount float64) error {
	bidder, err := s.users.FindUserByID(bidderID)
	if err != nil {
		return fmt.Errorf("service: failed to load bidder %s: %w", bidderID, err)
	}

	row := models.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: a.AuctionID,
		Bidder: models.Bidder{
			UserID:       bidder.UserID,
			UserName:     bidder.UserName,
			ProfileImage: bidder.ProfileImage,
		},
		Amount:    amount,
		CreatedAt: s.clk.Now(),
	}

	if err := s.repo.CreateBid(row); err != nil {
		return fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", a.AuctionID, bidderID, err)
	}

	a.Bids = append(a.Bids, models.BidSummary{
		UserID:       bidder.UserID,
		UserName:     bidder.UserName,
		ProfileImage: bidder.ProfileImage,
		Amount:       amount,
	})
	return nil
}

// GetBidsForAuction returns all ledger rows for an auction
func (s *BiddingService) GetBidsForAuction(auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidBid)
	}

	rows, err := s.repo.GetBidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return rows, nil
}
