package server

import (
	auction "auction-platform/internal/auctionService"
	bidding "auction-platform/internal/biddingService"
	"auction-platform/internal/repository"
	auctionhandler "auction-platform/services/auction/handler"
	biddinghandler "auction-platform/services/bidding/handler"
	userhandler "auction-platform/services/user/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.AuctionService, biddingService *bidding.BiddingService, users repository.UserDirectory) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := auctionhandler.NewAuctionHandler(auctionService)
	biddingHandler := biddinghandler.NewBiddingHandler(biddingService)
	userHandler := userhandler.NewUserHandler(users)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.DELETE("/:auction_id", auctionHandler.DeleteAuctionHandler)
		auctions.PUT("/:auction_id/republish", auctionHandler.RepublishAuctionHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
	}

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.PlaceBidHandler)
	}

	usersGroup := router.Group("/users")
	{
		usersGroup.GET("/:user_id/auctions", auctionHandler.ListByOwnerHandler)
	}

	router.GET("/leaderboard", userHandler.LeaderboardHandler)

	return router
}
