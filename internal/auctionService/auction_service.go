package auction

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"auction-platform/internal/auctionerrors"
	"auction-platform/internal/clock"
	"auction-platform/internal/locks"
	"auction-platform/internal/models"
	"auction-platform/internal/repository"
	"auction-platform/utils"
)

// minStartLead is the minimum scheduling lead time: an auction must start at
// least this far in the future.
const minStartLead = time.Minute

// CreateAuctionSpec carries the caller-supplied fields for a new auction.
type CreateAuctionSpec struct {
	Title       string
	Description string
	Category    string
	Condition   string
	StartingBid float64
	StartTime   time.Time
	EndTime     time.Time
	Image       models.ImageRef
	CreatedBy   string
}

// AuctionService owns the auction lifecycle: creation, deletion and
// republishing. Bidding and settlement live in their own services.
type AuctionService struct {
	repo  repository.AuctionDB
	users repository.UserDirectory
	clk   clock.Clock
	locks *locks.KeyedMutex
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(repo repository.AuctionDB, users repository.UserDirectory, clk clock.Clock, km *locks.KeyedMutex) *AuctionService {
	return &AuctionService{
		repo:  repo,
		users: users,
		clk:   clk,
		locks: km,
	}
}

// Create validates and persists a new auction in scheduled state.
func (s *AuctionService) Create(spec CreateAuctionSpec) (models.Auction, error) {
	if spec.Title == "" || spec.Description == "" || spec.Category == "" ||
		spec.Condition == "" || spec.CreatedBy == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing required fields", auctionerrors.ErrInvalidAuction)
	}
	if spec.StartingBid <= 0 {
		return models.Auction{}, fmt.Errorf("service: %w - starting bid must be positive", auctionerrors.ErrInvalidAuction)
	}
	if spec.StartTime.IsZero() || spec.EndTime.IsZero() {
		return models.Auction{}, fmt.Errorf("service: %w - start and end time are required", auctionerrors.ErrInvalidAuction)
	}
	if err := s.validateSchedule(spec.StartTime, spec.EndTime); err != nil {
		return models.Auction{}, err
	}

	// Serialize per owner so two concurrent creates cannot both pass the
	// overlap check.
	unlock := s.locks.Lock("owner:" + spec.CreatedBy)
	defer unlock()

	existing, err := s.repo.ListAuctionsByOwner(spec.CreatedBy)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to list auctions for owner %s: %w", spec.CreatedBy, err)
	}
	for _, other := range existing {
		// [start, end) interval overlap
		if spec.StartTime.Before(other.EndTime) && spec.EndTime.After(other.StartTime) {
			return models.Auction{}, fmt.Errorf("service: %w - clashes with auction %s", auctionerrors.ErrScheduleConflict, other.AuctionID)
		}
	}

	a := models.Auction{
		AuctionID:            utils.GenerateID(),
		Title:                spec.Title,
		Description:          spec.Description,
		Category:             spec.Category,
		Condition:            spec.Condition,
		StartingBid:          spec.StartingBid,
		CurrentBid:           0,
		StartTime:            spec.StartTime,
		EndTime:              spec.EndTime,
		Image:                spec.Image,
		CreatedBy:            spec.CreatedBy,
		CommissionCalculated: false,
		Bids:                 []models.BidSummary{},
		CreatedAt:            s.clk.Now(),
	}

	if err := s.repo.CreateAuction(a); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for owner %s: %w", spec.CreatedBy, err)
	}
	return a, nil
}

// Get returns an auction together with its bidders sorted by amount descending.
func (s *AuctionService) Get(auctionID string) (models.Auction, []models.BidSummary, error) {
	if !utils.IsValidID(auctionID) {
		return models.Auction{}, nil, fmt.Errorf("service: %w - bad auction id %q", auctionerrors.ErrAuctionNotFound, auctionID)
	}
	a, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, nil, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	bidders := append([]models.BidSummary(nil), a.Bids...)
	sort.Slice(bidders, func(i, j int) bool { return bidders[i].Amount > bidders[j].Amount })
	return a, bidders, nil
}

// List returns all auctions.
func (s *AuctionService) List() ([]models.Auction, error) {
	items, err := s.repo.ListAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return items, nil
}

// ListByOwner returns the auctions created by a user.
func (s *AuctionService) ListByOwner(ownerID string) ([]models.Auction, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("service: %w - empty owner id", auctionerrors.ErrInvalidAuction)
	}
	items, err := s.repo.ListAuctionsByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions for owner %s: %w", ownerID, err)
	}
	return items, nil
}

// Delete removes an auction and its ledger rows unconditionally.
func (s *AuctionService) Delete(auctionID string) error {
	if !utils.IsValidID(auctionID) {
		return fmt.Errorf("service: %w - bad auction id %q", auctionerrors.ErrAuctionNotFound, auctionID)
	}

	unlock := s.locks.Lock(auctionID)
	defer unlock()

	if err := s.repo.DeleteAuction(auctionID); err != nil {
		return fmt.Errorf("service: failed to delete auction %s: %w", auctionID, err)
	}
	if err := s.repo.DeleteBidsByAuction(auctionID); err != nil {
		return fmt.Errorf("service: failed to delete bids for auction %s: %w", auctionID, err)
	}
	return nil
}

// Republish rolls a closed auction back to scheduled state with a fresh
// bidding window. If a leading bidder was recorded but the auction never
// settled, their speculative statistics are rolled back first.
func (s *AuctionService) Republish(auctionID string, newStart, newEnd time.Time) (models.Auction, error) {
	if !utils.IsValidID(auctionID) {
		return models.Auction{}, fmt.Errorf("service: %w - bad auction id %q", auctionerrors.ErrAuctionNotFound, auctionID)
	}
	if newStart.IsZero() || newEnd.IsZero() {
		return models.Auction{}, fmt.Errorf("service: %w - start and end time are required for republish", auctionerrors.ErrInvalidAuction)
	}

	unlock := s.locks.Lock(auctionID)
	defer unlock()

	a, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}

	if a.EndTime.After(s.clk.Now()) {
		return models.Auction{}, fmt.Errorf("service: %w - auction %s has not ended", auctionerrors.ErrAuctionActive, auctionID)
	}
	if err := s.validateSchedule(newStart, newEnd); err != nil {
		return models.Auction{}, err
	}

	if a.HighestBidder != "" && !a.CommissionCalculated {
		if err := s.rollbackBidderStats(a); err != nil {
			return models.Auction{}, err
		}
	}

	a.StartTime = newStart
	a.EndTime = newEnd
	a.Bids = []models.BidSummary{}
	a.CurrentBid = 0
	a.HighestBidder = ""
	a.CommissionCalculated = false

	if err := s.repo.UpdateAuction(a); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to republish auction %s: %w", auctionID, err)
	}
	if err := s.repo.DeleteBidsByAuction(auctionID); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to clear bids for auction %s: %w", auctionID, err)
	}
	return a, nil
}

// rollbackBidderStats undoes the leading bidder's speculative statistics,
// flooring both at zero.
func (s *AuctionService) rollbackBidderStats(a models.Auction) error {
	bidder, err := s.users.FindUserByID(a.HighestBidder)
	if errors.Is(err, auctionerrors.ErrUserNotFound) {
		utils.Warn("republish: leading bidder missing, skipping stats rollback", map[string]any{
			"auction_id": a.AuctionID,
			"user_id":    a.HighestBidder,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("service: failed to load bidder %s: %w", a.HighestBidder, err)
	}

	bidder.MoneySpent = max(0, bidder.MoneySpent-a.CurrentBid)
	bidder.AuctionsWon = max(0, bidder.AuctionsWon-1)
	if err := s.users.SaveUser(bidder); err != nil {
		return fmt.Errorf("service: failed to roll back stats for bidder %s: %w", bidder.UserID, err)
	}
	return nil
}

// validateSchedule enforces the lead-time and ordering rules shared by
// Create and Republish.
func (s *AuctionService) validateSchedule(start, end time.Time) error {
	now := s.clk.Now()
	if start.Before(now.Add(minStartLead)) {
		return fmt.Errorf("service: %w - start time must be at least %s in the future", auctionerrors.ErrBadSchedule, minStartLead)
	}
	if !start.Before(end) {
		return fmt.Errorf("service: %w - start time must be before end time", auctionerrors.ErrBadSchedule)
	}
	return nil
}
