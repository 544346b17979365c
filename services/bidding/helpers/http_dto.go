package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	UserID    string  `json:"user_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type PlaceBidResponse struct {
	AuctionID  string  `json:"auction_id"`
	CurrentBid float64 `json:"current_bid"`
}
