package helpers

import "time"

// Request/Response DTOs
type CreateAuctionRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description" binding:"required"`
	Category      string    `json:"category" binding:"required"`
	Condition     string    `json:"condition" binding:"required"`
	StartingBid   float64   `json:"starting_bid" binding:"required,gt=0"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	ImagePublicID string    `json:"image_public_id"`
	ImageURL      string    `json:"image_url" binding:"required"`
	CreatedBy     string    `json:"created_by" binding:"required"`
}

type RepublishRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}
