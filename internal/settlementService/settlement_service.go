package settlement

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"auction-platform/internal/auctionerrors"
	"auction-platform/internal/clock"
	"auction-platform/internal/locks"
	"auction-platform/internal/models"
	"auction-platform/internal/repository"
	"auction-platform/utils"
)

// monetaryPrecision is the number of decimal places kept on commission amounts.
const monetaryPrecision = 2

// EmailSender dispatches the winner notification. Failures are logged by the
// settlement engine, never retried by it.
type EmailSender interface {
	Send(to, subject, message string) error
}

// SettlementService closes out an ended auction: it determines the winning
// bid, records the commission owed by the auctioneer, updates winner and
// seller statistics, and notifies the winner.
type SettlementService struct {
	repo   repository.AuctionDB
	users  repository.UserDirectory
	mailer EmailSender
	clk    clock.Clock
	locks  *locks.KeyedMutex
	rate   decimal.Decimal
}

// NewSettlementService creates a new SettlementService instance
func NewSettlementService(repo repository.AuctionDB, users repository.UserDirectory, mailer EmailSender, clk clock.Clock, km *locks.KeyedMutex, commissionRate float64) *SettlementService {
	return &SettlementService{
		repo:   repo,
		users:  users,
		mailer: mailer,
		clk:    clk,
		locks:  km,
		rate:   decimal.NewFromFloat(commissionRate),
	}
}

// outcome carries what the notification step needs once the authoritative
// state is committed.
type outcome struct {
	auction    models.Auction
	auctioneer models.User
	winner     models.User
}

// Settle processes one ended auction exactly once. Re-invoking after the
// commission flag is set is a no-op. The notification is dispatched after
// the per-auction lock is released; its failure does not undo settlement.
func (s *SettlementService) Settle(auctionID string) error {
	result, err := s.settle(auctionID)
	if err != nil || result == nil {
		return err
	}

	subject, message := winnerEmail(result.auction, result.auctioneer, result.winner)
	if err := s.mailer.Send(result.winner.Email, subject, message); err != nil {
		utils.Warn("settlement: winner notification failed", map[string]any{
			"auction_id": result.auction.AuctionID,
			"user_id":    result.winner.UserID,
			"error":      err.Error(),
		})
	}
	return nil
}

// settle performs steps 1-6 under the per-auction lock and returns a non-nil
// outcome when a winner notification should follow.
func (s *SettlementService) settle(auctionID string) (*outcome, error) {
	unlock := s.locks.Lock(auctionID)
	defer unlock()

	a, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("settlement: failed to get auction %s: %w", auctionID, err)
	}
	if a.CommissionCalculated {
		return nil, nil
	}
	if a.EndTime.After(s.clk.Now()) {
		return nil, fmt.Errorf("settlement: %w - auction %s has not ended", auctionerrors.ErrAuctionActive, auctionID)
	}

	winning, err := s.repo.GetWinningBid(auctionID)
	if errors.Is(err, auctionerrors.ErrNoBids) {
		// Nothing to settle: no commission, no notification, no stats.
		a.CommissionCalculated = true
		if err := s.repo.UpdateAuction(a); err != nil {
			return nil, fmt.Errorf("settlement: failed to mark auction %s settled: %w", auctionID, err)
		}
		utils.Info("settlement: auction ended without bids", map[string]any{"auction_id": auctionID})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settlement: failed to get winning bid for auction %s: %w", auctionID, err)
	}

	commission := decimal.NewFromFloat(a.CurrentBid).Mul(s.rate).Round(monetaryPrecision)
	if !commission.IsPositive() {
		// Stale or zero currentBid: leave the auction unsettled so the next
		// sweep retries it.
		return nil, fmt.Errorf("settlement: %w - computed %s for auction %s", auctionerrors.ErrBadCommission, commission, auctionID)
	}
	commissionAmount := commission.InexactFloat64()

	if err := s.repo.CreateCommission(models.Commission{
		CommissionID: utils.GenerateID(),
		UserID:       a.CreatedBy,
		Amount:       commissionAmount,
		CreatedAt:    s.clk.Now(),
	}); err != nil {
		return nil, fmt.Errorf("settlement: failed to record commission for auction %s: %w", auctionID, err)
	}

	a.HighestBidder = winning.Bidder.UserID
	a.CommissionCalculated = true
	if err := s.repo.UpdateAuction(a); err != nil {
		return nil, fmt.Errorf("settlement: failed to update auction %s: %w", auctionID, err)
	}

	utils.Info("settlement: auction settled", map[string]any{
		"auction_id": auctionID,
		"winner":     winning.Bidder.UserID,
		"amount":     a.CurrentBid,
		"commission": commissionAmount,
	})

	// The auction is durably settled from here on. Statistics and the
	// notification are best-effort; their failures are logged, not rolled
	// back into a settlement failure.
	winner, auctioneer, err := s.applyStatistics(a, commissionAmount)
	if err != nil {
		utils.Warn("settlement: statistics update failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return nil, nil
	}

	return &outcome{auction: a, auctioneer: auctioneer, winner: winner}, nil
}

// applyStatistics credits the winner's spend/win counters and accrues the
// auctioneer's unpaid commission.
func (s *SettlementService) applyStatistics(a models.Auction, commissionAmount float64) (winner, auctioneer models.User, err error) {
	winner, err = s.users.FindUserByID(a.HighestBidder)
	if err != nil {
		return models.User{}, models.User{}, fmt.Errorf("load winner %s: %w", a.HighestBidder, err)
	}
	winner.MoneySpent += a.CurrentBid
	winner.AuctionsWon++
	if err = s.users.SaveUser(winner); err != nil {
		return models.User{}, models.User{}, fmt.Errorf("save winner %s: %w", winner.UserID, err)
	}

	auctioneer, err = s.users.FindUserByID(a.CreatedBy)
	if err != nil {
		return models.User{}, models.User{}, fmt.Errorf("load auctioneer %s: %w", a.CreatedBy, err)
	}
	auctioneer.UnpaidCommission += commissionAmount
	if err = s.users.SaveUser(auctioneer); err != nil {
		return models.User{}, models.User{}, fmt.Errorf("save auctioneer %s: %w", auctioneer.UserID, err)
	}
	return winner, auctioneer, nil
}

// winnerEmail composes the winner notification with the auctioneer's payout
// instructions.
func winnerEmail(a models.Auction, auctioneer, winner models.User) (subject, message string) {
	subject = fmt.Sprintf("Congratulations! You won the auction for %s", a.Title)
	message = fmt.Sprintf(
		"Dear %s,\n\n"+
			"Congratulations! You have won the auction for %s.\n\n"+
			"Before proceeding with payment, contact your auctioneer via email: %s\n\n"+
			"Payment Methods:\n"+
			"1. **Bank Transfer**: \n"+
			"- Account Name: %s \n"+
			"- Account Number: %s \n"+
			"- Bank: %s\n\n"+
			"2. **PayPal**:\n"+
			"- Send payment to: %s\n\n"+
			"3. **Cash on Delivery (COD)**:\n"+
			"- Pay 20%% upfront via the above methods.\n"+
			"- The remaining 80%% will be paid on delivery.\n\n"+
			"For item verification, contact: %s\n\n"+
			"Best regards,\nAuction Platform Team",
		winner.UserName,
		a.Title,
		auctioneer.Email,
		auctioneer.PaymentMethods.BankTransfer.BankAccountName,
		auctioneer.PaymentMethods.BankTransfer.BankAccountNumber,
		auctioneer.PaymentMethods.BankTransfer.BankName,
		auctioneer.PaymentMethods.Paypal.PaypalEmail,
		auctioneer.Email,
	)
	return subject, message
}
