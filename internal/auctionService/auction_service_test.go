package auction

import (
	"errors"
	"testing"
	"time"

	"auction-platform/internal/auctionerrors"
	"auction-platform/internal/clock"
	"auction-platform/internal/locks"
	model "auction-platform/internal/models"
	"auction-platform/internal/repository"
	"auction-platform/utils"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validSpec() CreateAuctionSpec {
	return CreateAuctionSpec{
		Title:       "Vintage Radio",
		Description: "A working tube radio from the 1950s",
		Category:    "Electronics",
		Condition:   "Used",
		StartingBid: 50,
		StartTime:   testNow.Add(2 * time.Minute),
		EndTime:     testNow.Add(time.Hour),
		CreatedBy:   "owner1",
	}
}

// Tests Create
func TestAuctionService_Create(t *testing.T) {
	t.Parallel()

	// Table-driven test cases
	tests := []struct {
		name          string
		mutate        func(spec *CreateAuctionSpec)
		mockSetup     func(repo *repository.MockAuctionDB)
		expectError   bool
		expectedError error
	}{
		{
			name:   "valid_auction",
			mutate: func(spec *CreateAuctionSpec) {},
			mockSetup: func(repo *repository.MockAuctionDB) {
				repo.EXPECT().ListAuctionsByOwner("owner1").Return(nil, nil)
				repo.EXPECT().CreateAuction(gomock.Any()).Return(nil)
			},
		},
		{
			name:          "missing_title",
			mutate:        func(spec *CreateAuctionSpec) { spec.Title = "" },
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrInvalidAuction,
		},
		{
			name:          "missing_description",
			mutate:        func(spec *CreateAuctionSpec) { spec.Description = "" },
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrInvalidAuction,
		},
		{
			name:          "missing_owner",
			mutate:        func(spec *CreateAuctionSpec) { spec.CreatedBy = "" },
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrInvalidAuction,
		},
		{
			name:          "zero_starting_bid",
			mutate:        func(spec *CreateAuctionSpec) { spec.StartingBid = 0 },
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrInvalidAuction,
		},
		{
			name:          "zero_start_time",
			mutate:        func(spec *CreateAuctionSpec) { spec.StartTime = time.Time{} },
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrInvalidAuction,
		},
		{
			name: "start_too_soon",
			mutate: func(spec *CreateAuctionSpec) {
				spec.StartTime = testNow.Add(30 * time.Second)
			},
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrBadSchedule,
		},
		{
			name: "start_after_end",
			mutate: func(spec *CreateAuctionSpec) {
				spec.StartTime = testNow.Add(2 * time.Hour)
				spec.EndTime = testNow.Add(time.Hour)
			},
			mockSetup:     func(*repository.MockAuctionDB) {},
			expectError:   true,
			expectedError: auctionerrors.ErrBadSchedule,
		},
		{
			name:   "overlapping_window_same_owner",
			mutate: func(spec *CreateAuctionSpec) {},
			mockSetup: func(repo *repository.MockAuctionDB) {
				repo.EXPECT().ListAuctionsByOwner("owner1").Return([]model.Auction{
					{
						AuctionID: "existing",
						CreatedBy: "owner1",
						StartTime: testNow.Add(10 * time.Minute),
						EndTime:   testNow.Add(30 * time.Minute),
					},
				}, nil)
			},
			expectError:   true,
			expectedError: auctionerrors.ErrScheduleConflict,
		},
		{
			name: "back_to_back_windows_allowed",
			mutate: func(spec *CreateAuctionSpec) {
				// Starts exactly when the existing auction ends.
				spec.StartTime = testNow.Add(30 * time.Minute)
				spec.EndTime = testNow.Add(time.Hour)
			},
			mockSetup: func(repo *repository.MockAuctionDB) {
				repo.EXPECT().ListAuctionsByOwner("owner1").Return([]model.Auction{
					{
						AuctionID: "existing",
						CreatedBy: "owner1",
						StartTime: testNow.Add(10 * time.Minute),
						EndTime:   testNow.Add(30 * time.Minute),
					},
				}, nil)
				repo.EXPECT().CreateAuction(gomock.Any()).Return(nil)
			},
		},
		{
			name:   "repo_fails",
			mutate: func(spec *CreateAuctionSpec) {},
			mockSetup: func(repo *repository.MockAuctionDB) {
				repo.EXPECT().ListAuctionsByOwner("owner1").Return(nil, nil)
				repo.EXPECT().CreateAuction(gomock.Any()).Return(errors.New("repo write failed"))
			},
			expectError: true,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel() // Run tests concurrently

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repository.NewMockAuctionDB(ctrl)
			mockUsers := repository.NewMockUserDirectory(ctrl)
			tc.mockSetup(mockRepo)

			service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

			spec := validSpec()
			tc.mutate(&spec)
			created, err := service.Create(spec)

			if tc.expectError {
				require.Error(t, err)
				if tc.expectedError != nil {
					require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				}
			} else {
				require.NoError(t, err)
				require.True(t, utils.IsValidID(created.AuctionID))
				require.Equal(t, 0.0, created.CurrentBid)
				require.False(t, created.CommissionCalculated)
				require.Empty(t, created.Bids)
				require.Equal(t, testNow, created.CreatedAt)
			}
		})
	}
}

// Tests Get
func TestAuctionService_Get(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	mockUsers := repository.NewMockUserDirectory(ctrl)
	service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

	id := uuid.New().String()
	mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
		AuctionID: id,
		Title:     "Vintage Radio",
		Bids: []model.BidSummary{
			{UserID: "user1", Amount: 100},
			{UserID: "user2", Amount: 150},
		},
	}, nil)

	a, bidders, err := service.Get(id)
	require.NoError(t, err)
	require.Equal(t, id, a.AuctionID)
	require.Len(t, bidders, 2)
	require.Equal(t, "user2", bidders[0].UserID, "bidders should be sorted by amount descending")

	// Malformed ids are rejected without touching the repository.
	_, _, err = service.Get("not-a-uuid")
	require.ErrorIs(t, err, auctionerrors.ErrAuctionNotFound)
}

// Tests Delete
func TestAuctionService_Delete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	mockUsers := repository.NewMockUserDirectory(ctrl)
	service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

	id := uuid.New().String()
	mockRepo.EXPECT().DeleteAuction(id).Return(nil)
	mockRepo.EXPECT().DeleteBidsByAuction(id).Return(nil)
	require.NoError(t, service.Delete(id))

	missing := uuid.New().String()
	mockRepo.EXPECT().DeleteAuction(missing).Return(auctionerrors.ErrAuctionNotFound)
	require.ErrorIs(t, service.Delete(missing), auctionerrors.ErrAuctionNotFound)

	require.ErrorIs(t, service.Delete("not-a-uuid"), auctionerrors.ErrAuctionNotFound)
}

// Tests Republish
func TestAuctionService_Republish(t *testing.T) {
	t.Parallel()

	newStart := testNow.Add(5 * time.Minute)
	newEnd := testNow.Add(time.Hour)

	t.Run("rejects_active_auction", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repository.NewMockAuctionDB(ctrl)
		mockUsers := repository.NewMockUserDirectory(ctrl)
		service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

		id := uuid.New().String()
		mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
			AuctionID: id,
			EndTime:   testNow.Add(time.Minute),
		}, nil)

		_, err := service.Republish(id, newStart, newEnd)
		require.ErrorIs(t, err, auctionerrors.ErrAuctionActive)
	})

	t.Run("rejects_bad_schedule", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repository.NewMockAuctionDB(ctrl)
		mockUsers := repository.NewMockUserDirectory(ctrl)
		service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

		id := uuid.New().String()
		mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
			AuctionID: id,
			EndTime:   testNow.Add(-time.Hour),
		}, nil)

		_, err := service.Republish(id, testNow.Add(10*time.Second), newEnd)
		require.ErrorIs(t, err, auctionerrors.ErrBadSchedule)
	})

	t.Run("resets_bidding_state", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repository.NewMockAuctionDB(ctrl)
		mockUsers := repository.NewMockUserDirectory(ctrl)
		service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

		id := uuid.New().String()
		mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
			AuctionID:  id,
			StartTime:  testNow.Add(-2 * time.Hour),
			EndTime:    testNow.Add(-time.Hour),
			CurrentBid: 120,
			Bids:       []model.BidSummary{{UserID: "user1", Amount: 120}},
		}, nil)
		mockRepo.EXPECT().UpdateAuction(gomock.Any()).DoAndReturn(func(updated model.Auction) error {
			require.Equal(t, newStart, updated.StartTime)
			require.Equal(t, newEnd, updated.EndTime)
			require.Equal(t, 0.0, updated.CurrentBid)
			require.Empty(t, updated.Bids)
			require.Empty(t, updated.HighestBidder)
			require.False(t, updated.CommissionCalculated)
			return nil
		})
		mockRepo.EXPECT().DeleteBidsByAuction(id).Return(nil)

		updated, err := service.Republish(id, newStart, newEnd)
		require.NoError(t, err)
		require.Equal(t, newStart, updated.StartTime)
	})

	t.Run("rolls_back_unsettled_winner_stats", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repository.NewMockAuctionDB(ctrl)
		mockUsers := repository.NewMockUserDirectory(ctrl)
		service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

		id := uuid.New().String()
		mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
			AuctionID:     id,
			StartTime:     testNow.Add(-2 * time.Hour),
			EndTime:       testNow.Add(-time.Hour),
			CurrentBid:    120,
			HighestBidder: "user1",
		}, nil)
		mockUsers.EXPECT().FindUserByID("user1").Return(model.User{
			UserID:      "user1",
			MoneySpent:  100, // less than the rolled-back bid, must floor at zero
			AuctionsWon: 1,
		}, nil)
		mockUsers.EXPECT().SaveUser(gomock.Any()).DoAndReturn(func(u model.User) error {
			require.Equal(t, 0.0, u.MoneySpent)
			require.Equal(t, 0, u.AuctionsWon)
			return nil
		})
		mockRepo.EXPECT().UpdateAuction(gomock.Any()).Return(nil)
		mockRepo.EXPECT().DeleteBidsByAuction(id).Return(nil)

		_, err := service.Republish(id, newStart, newEnd)
		require.NoError(t, err)
	})

	t.Run("skips_rollback_for_settled_auction", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repository.NewMockAuctionDB(ctrl)
		mockUsers := repository.NewMockUserDirectory(ctrl)
		service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

		id := uuid.New().String()
		mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
			AuctionID:            id,
			EndTime:              testNow.Add(-time.Hour),
			CurrentBid:           120,
			HighestBidder:        "user1",
			CommissionCalculated: true,
		}, nil)
		// No FindUserByID or SaveUser expected.
		mockRepo.EXPECT().UpdateAuction(gomock.Any()).Return(nil)
		mockRepo.EXPECT().DeleteBidsByAuction(id).Return(nil)

		_, err := service.Republish(id, newStart, newEnd)
		require.NoError(t, err)
	})

	t.Run("missing_bidder_does_not_block_republish", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repository.NewMockAuctionDB(ctrl)
		mockUsers := repository.NewMockUserDirectory(ctrl)
		service := NewAuctionService(mockRepo, mockUsers, clock.NewFake(testNow), locks.NewKeyedMutex())

		id := uuid.New().String()
		mockRepo.EXPECT().GetAuction(id).Return(model.Auction{
			AuctionID:     id,
			EndTime:       testNow.Add(-time.Hour),
			CurrentBid:    120,
			HighestBidder: "ghost",
		}, nil)
		mockUsers.EXPECT().FindUserByID("ghost").Return(model.User{}, auctionerrors.ErrUserNotFound)
		mockRepo.EXPECT().UpdateAuction(gomock.Any()).Return(nil)
		mockRepo.EXPECT().DeleteBidsByAuction(id).Return(nil)

		_, err := service.Republish(id, newStart, newEnd)
		require.NoError(t, err)
	})
}
