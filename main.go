package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auction "auction-platform/internal/auctionService"
	bidding "auction-platform/internal/biddingService"
	"auction-platform/internal/clock"
	"auction-platform/internal/config"
	"auction-platform/internal/locks"
	model "auction-platform/internal/models"
	"auction-platform/internal/notification"
	"auction-platform/internal/repository"
	"auction-platform/internal/scheduler"
	"auction-platform/internal/server"
	settlement "auction-platform/internal/settlementService"
	"auction-platform/utils"
)

func main() {
	cfg := ParseArgs()
	if !cfg.Validate() {
		utils.Fatal("invalid configuration", map[string]any{"server_addr": cfg.ServerAddr})
	}
	utils.SetLogLevel(cfg.LogLevel)

	repo := repository.NewMemoryRepo()
	prepopulateUsers(repo)

	clk := clock.Real{}
	km := locks.NewKeyedMutex()

	auctionSvc := auction.NewAuctionService(repo, repo, clk, km)
	biddingSvc := bidding.NewBiddingService(repo, repo, clk, km)
	settlementSvc := settlement.NewSettlementService(repo, repo, newMailer(cfg), clk, km, cfg.CommissionRate)

	sweeper := scheduler.NewClosureScheduler(repo, settlementSvc, clk, cfg.SweepInterval)
	sweeper.Start()

	router := server.SetupRouter(auctionSvc, biddingSvc, repo)
	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.ServerAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	// Graceful shutdown: stop taking requests, then stop the sweep loop.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("server shutdown failed", map[string]any{"error": err.Error()})
	}
	sweeper.Stop()
}

// newMailer returns the SMTP mailer when configured, or a logging stand-in.
func newMailer(cfg config.Config) settlement.EmailSender {
	if cfg.SMTP.Host == "" {
		return notification.LogMailer{}
	}
	return notification.NewSMTPMailer(cfg.SMTP)
}

// prepopulateUsers seeds a couple of demo accounts so the API is exercisable
// out of the box.
func prepopulateUsers(repo *repository.MemoryRepo) {
	users := []model.User{
		{
			UserID:   "1d2f8a3e-0000-4000-8000-000000000001",
			UserName: "demo-auctioneer",
			Email:    "auctioneer@example.com",
			PaymentMethods: model.PaymentMethods{
				BankTransfer: model.BankTransfer{BankAccountName: "Demo Auctioneer", BankAccountNumber: "000123456789", BankName: "Demo Bank"},
				Paypal:       model.Paypal{PaypalEmail: "auctioneer@example.com"},
			},
		},
		{
			UserID:   "1d2f8a3e-0000-4000-8000-000000000002",
			UserName: "demo-bidder",
			Email:    "bidder@example.com",
		},
	}

	for _, u := range users {
		if err := repo.SaveUser(u); err != nil {
			utils.Warn("failed to seed user", map[string]any{"user_id": u.UserID, "error": err.Error()})
		}
	}
}
