package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "auction-platform/internal/auctionService"
	bidding "auction-platform/internal/biddingService"
	"auction-platform/internal/clock"
	"auction-platform/internal/locks"
	model "auction-platform/internal/models"
	"auction-platform/internal/repository"
	"auction-platform/internal/server"
	settlement "auction-platform/internal/settlementService"
	"auction-platform/utils"

	"github.com/gin-gonic/gin"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testEnv bundles the wired application with the hooks the tests need to
// seed state and drive time.
type testEnv struct {
	router     *gin.Engine
	repo       *repository.MemoryRepo
	clk        *clock.Fake
	settlement *settlement.SettlementService
}

// discardMailer drops winner notifications; integration tests assert on
// repository state, not SMTP traffic.
type discardMailer struct{}

func (discardMailer) Send(to, subject, message string) error { return nil }

// SetupTestEnv initializes the router with in-memory repository for integration testing.
func SetupTestEnv(users ...model.User) *testEnv {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	clk := clock.NewFake(testNow)
	km := locks.NewKeyedMutex()

	for _, u := range users {
		if err := repo.SaveUser(u); err != nil {
			panic(err)
		}
	}

	auctionService := auction.NewAuctionService(repo, repo, clk, km)
	biddingService := bidding.NewBiddingService(repo, repo, clk, km)
	settlementService := settlement.NewSettlementService(repo, repo, discardMailer{}, clk, km, 0.05)
	router := server.SetupRouter(auctionService, biddingService, repo)

	return &testEnv{
		router:     router,
		repo:       repo,
		clk:        clk,
		settlement: settlementService,
	}
}

// seedAuction persists an auction directly, bypassing the creation rules.
func (e *testEnv) seedAuction(t *testing.T, a model.Auction) model.Auction {
	t.Helper()
	if a.AuctionID == "" {
		a.AuctionID = utils.GenerateID()
	}
	if a.Bids == nil {
		a.Bids = []model.BidSummary{}
	}
	if err := e.repo.CreateAuction(a); err != nil {
		t.Fatalf("failed to seed auction: %v", err)
	}
	return a
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case []byte:
		reqBody = v
	case nil:
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}
