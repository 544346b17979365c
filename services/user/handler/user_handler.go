package handler

import (
	"net/http"
	"sort"

	"auction-platform/internal/models"
	"auction-platform/utils"

	"github.com/gin-gonic/gin"
)

// UserLister is the slice of the user directory this handler consumes.
type UserLister interface {
	ListUsers() ([]models.User, error)
}

type UserHandler struct {
	users UserLister
}

func NewUserHandler(users UserLister) *UserHandler {
	return &UserHandler{users: users}
}

// LeaderboardEntry is the public projection of a user's standing.
type LeaderboardEntry struct {
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name"`
	ProfileImage string  `json:"profile_image"`
	MoneySpent   float64 `json:"money_spent"`
	AuctionsWon  int     `json:"auctions_won"`
}

// LeaderboardHandler handles GET /leaderboard
func (h *UserHandler) LeaderboardHandler(c *gin.Context) {
	users, err := h.users.ListUsers()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err, "failed to build leaderboard")
		utils.Error("LeaderboardHandler: failed to list users", map[string]any{"error": err.Error()})
		return
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		if u.MoneySpent == 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:       u.UserID,
			UserName:     u.UserName,
			ProfileImage: u.ProfileImage,
			MoneySpent:   u.MoneySpent,
			AuctionsWon:  u.AuctionsWon,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MoneySpent > entries[j].MoneySpent })

	utils.JSONResponse(c, http.StatusOK, entries, "leaderboard retrieved successfully")
}
