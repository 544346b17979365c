package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-platform/internal/auctionerrors"
	model "auction-platform/internal/models"
)

// AuctionDB defines the storage interface for the auction marketplace: the
// auction collection, the bid ledger, and the commission ledger.
type AuctionDB interface {
	CreateAuction(a model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	UpdateAuction(a model.Auction) error
	DeleteAuction(auctionID string) error
	ListAuctions() ([]model.Auction, error)
	ListAuctionsByOwner(ownerID string) ([]model.Auction, error)
	ListExpiredUnsettled(now time.Time) ([]model.Auction, error)

	CreateBid(bid model.Bid) error
	UpdateBid(bid model.Bid) error
	GetBidByBidder(auctionID, bidderID string) (model.Bid, error)
	GetBidsByAuction(auctionID string) ([]model.Bid, error)
	GetWinningBid(auctionID string) (model.Bid, error)
	DeleteBidsByAuction(auctionID string) error

	CreateCommission(c model.Commission) error
	ListCommissionsByUser(userID string) ([]model.Commission, error)
}

// UserDirectory is the user-store collaborator consumed by the core. The
// core reads identity/payout fields and writes back aggregate statistics.
type UserDirectory interface {
	FindUserByID(userID string) (model.User, error)
	SaveUser(u model.User) error
	ListUsers() ([]model.User, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB and
// UserDirectory
type MemoryRepo struct {
	mu          sync.RWMutex
	auctions    map[string]model.Auction       // key: auctionID
	bids        map[string][]model.Bid         // key: auctionID -> ledger rows
	commissions map[string][]model.Commission  // key: userID -> commissions owed
	users       map[string]model.User          // key: userID
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:    make(map[string]model.Auction),
		bids:        make(map[string][]model.Bid),
		commissions: make(map[string][]model.Commission),
		users:       make(map[string]model.User),
	}
}

// CreateAuction stores a new auction record
func (r *MemoryRepo) CreateAuction(a model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.auctions[a.AuctionID] = copyAuction(a)
	return nil
}

// GetAuction returns the auction with the given id
func (r *MemoryRepo) GetAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return copyAuction(a), nil
}

// UpdateAuction replaces the stored auction record
func (r *MemoryRepo) UpdateAuction(a model.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[a.AuctionID]; !ok {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	r.auctions[a.AuctionID] = copyAuction(a)
	return nil
}

// DeleteAuction removes an auction record
func (r *MemoryRepo) DeleteAuction(auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return fmt.Errorf("delete auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	delete(r.auctions, auctionID)
	return nil
}

// ListAuctions returns all auctions
func (r *MemoryRepo) ListAuctions() ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		out = append(out, copyAuction(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListAuctionsByOwner returns all auctions created by the given user
func (r *MemoryRepo) ListAuctionsByOwner(ownerID string) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Auction
	for _, a := range r.auctions {
		if a.CreatedBy == ownerID {
			out = append(out, copyAuction(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListExpiredUnsettled returns auctions whose end time has passed and whose
// commission has not yet been calculated, ordered by end time.
func (r *MemoryRepo) ListExpiredUnsettled(now time.Time) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Auction
	for _, a := range r.auctions {
		if a.EndTime.Before(now) && !a.CommissionCalculated {
			out = append(out, copyAuction(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// CreateBid appends a new ledger row for an auction
func (r *MemoryRepo) CreateBid(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[bid.AuctionID]; !ok {
		return fmt.Errorf("create bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)
	return nil
}

// UpdateBid replaces a ledger row identified by its bid id
func (r *MemoryRepo) UpdateBid(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.bids[bid.AuctionID]
	for i := range rows {
		if rows[i].BidID == bid.BidID {
			rows[i] = bid
			return nil
		}
	}
	return fmt.Errorf("update bid %s for auction %s: %w", bid.BidID, bid.AuctionID, auctionerrors.ErrNoBids)
}

// GetBidByBidder returns the single ledger row a bidder holds on an auction
func (r *MemoryRepo) GetBidByBidder(auctionID, bidderID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bids[auctionID] {
		if b.Bidder.UserID == bidderID {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("get bid by user %s for auction %s: %w", bidderID, auctionID, auctionerrors.ErrNoBids)
}

// GetBidsByAuction returns all ledger rows for an auction
func (r *MemoryRepo) GetBidsByAuction(auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, ok := r.bids[auctionID]
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	return append([]model.Bid(nil), rows...), nil
}

// GetWinningBid returns the highest ledger row for an auction
func (r *MemoryRepo) GetWinningBid(auctionID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, ok := r.bids[auctionID]
	if !ok || len(rows) == 0 {
		return model.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	winning := rows[0]
	for _, b := range rows[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// DeleteBidsByAuction removes every ledger row referencing an auction
func (r *MemoryRepo) DeleteBidsByAuction(auctionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bids, auctionID)
	return nil
}

// CreateCommission records a commission owed by an auctioneer
func (r *MemoryRepo) CreateCommission(c model.Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commissions[c.UserID] = append(r.commissions[c.UserID], c)
	return nil
}

// ListCommissionsByUser returns all commissions owed by a user
func (r *MemoryRepo) ListCommissionsByUser(userID string) ([]model.Commission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]model.Commission(nil), r.commissions[userID]...), nil
}

// FindUserByID returns the user with the given id
func (r *MemoryRepo) FindUserByID(userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("find user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return u, nil
}

// SaveUser persists a user record, overwriting any previous state
func (r *MemoryRepo) SaveUser(u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.UserID] = u
	return nil
}

// ListUsers returns all known users
func (r *MemoryRepo) ListUsers() ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

// copyAuction clones an auction so callers cannot alias the stored Bids slice.
func copyAuction(a model.Auction) model.Auction {
	out := a
	out.Bids = append([]model.BidSummary(nil), a.Bids...)
	return out
}
