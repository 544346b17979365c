package handler

import (
	"fmt"
	"net/http"
	"time"

	auction "auction-platform/internal/auctionService"
	"auction-platform/internal/models"
	"auction-platform/services/auction/helpers"
	"auction-platform/utils"

	"github.com/gin-gonic/gin"
)

// AuctionServiceInterface is the lifecycle surface this handler consumes.
type AuctionServiceInterface interface {
	Create(spec auction.CreateAuctionSpec) (models.Auction, error)
	Get(auctionID string) (models.Auction, []models.BidSummary, error)
	List() ([]models.Auction, error)
	ListByOwner(ownerID string) ([]models.Auction, error)
	Delete(auctionID string) error
	Republish(auctionID string, newStart, newEnd time.Time) (models.Auction, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	a, err := h.service.Create(auction.CreateAuctionSpec{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		StartingBid: req.StartingBid,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Image:       models.ImageRef{PublicID: req.ImagePublicID, URL: req.ImageURL},
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"owner_id": req.CreatedBy,
			"title":    req.Title,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, a, fmt.Sprintf("auction created and will be listed at %s", a.StartTime.UTC().Format(time.RFC3339)))
	helpers.LogSuccess("CreateAuctionHandler", "auction created", map[string]any{
		"auction_id": a.AuctionID,
		"owner_id":   a.CreatedBy,
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, bidders, err := h.service.Get(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction": a, "bidders": bidders}, "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"bidders":    len(bidders),
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	items, err := h.service.List()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListAuctionsHandler: error listing auctions", map[string]any{"error": err.Error()})
		return
	}

	if items == nil {
		items = []models.Auction{}
	}
	utils.JSONResponse(c, http.StatusOK, items, "auctions retrieved successfully")
}

// ListByOwnerHandler handles GET /users/:user_id/auctions
func (h *AuctionHandler) ListByOwnerHandler(c *gin.Context) {
	ownerID := c.Param("user_id")
	items, err := h.service.ListByOwner(ownerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListByOwnerHandler: error listing auctions", map[string]any{"owner_id": ownerID, "error": err.Error()})
		return
	}

	if items == nil {
		items = []models.Auction{}
	}
	utils.JSONResponse(c, http.StatusOK, items, "auctions retrieved successfully")
	helpers.LogSuccess("ListByOwnerHandler", "auctions retrieved successfully", map[string]any{
		"owner_id": ownerID,
		"count":    len(items),
	})
}

// DeleteAuctionHandler handles DELETE /auctions/:auction_id
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	if err := h.service.Delete(auctionID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteAuctionHandler: error deleting auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "auction deleted successfully")
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted successfully", map[string]any{"auction_id": auctionID})
}

// RepublishAuctionHandler handles PUT /auctions/:auction_id/republish
func (h *AuctionHandler) RepublishAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.RepublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RepublishAuctionHandler", err)
		return
	}

	a, err := h.service.Republish(auctionID, req.StartTime, req.EndTime)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("RepublishAuctionHandler: error republishing auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, a, fmt.Sprintf("auction republished and will be active at %s", a.StartTime.UTC().Format(time.RFC3339)))
	helpers.LogSuccess("RepublishAuctionHandler", "auction republished", map[string]any{
		"auction_id": a.AuctionID,
		"start_time": a.StartTime.UTC().Format(time.RFC3339),
	})
}
