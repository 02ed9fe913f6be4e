// internal/models/auction_test.go
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeCurrentHighestBid(t *testing.T) {
	t.Run("no bids and no product yields zero", func(t *testing.T) {
		auction := &Auction{}
		auction.ComputeCurrentHighestBid()
		assert.Equal(t, int64(0), auction.CurrentHighestBid)
	})

	t.Run("no bids falls back to product initial price", func(t *testing.T) {
		auction := &Auction{Product: &Product{InitialPrice: 75}}
		auction.ComputeCurrentHighestBid()
		assert.Equal(t, int64(75), auction.CurrentHighestBid)
	})

	t.Run("bids beat the product floor", func(t *testing.T) {
		auction := &Auction{
			Product: &Product{InitialPrice: 75},
			Bids: []Bid{
				{Amount: 80},
				{Amount: 120},
				{Amount: 95},
			},
		}
		auction.ComputeCurrentHighestBid()
		assert.Equal(t, int64(120), auction.CurrentHighestBid)
	})
}

func TestIsFinishedBoundary(t *testing.T) {
	now := time.Now()

	assert.False(t, (&Auction{EndDate: now.Add(time.Second)}).IsFinished(now))
	assert.True(t, (&Auction{EndDate: now}).IsFinished(now))
	assert.True(t, (&Auction{EndDate: now.Add(-time.Second)}).IsFinished(now))
}

func TestCanBeModified(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	assert.True(t, (&Auction{IsActive: true, EndDate: future}).CanBeModified(now))
	assert.False(t, (&Auction{IsActive: false, EndDate: future}).CanBeModified(now))
	assert.False(t, (&Auction{IsActive: true, EndDate: now.Add(-time.Hour)}).CanBeModified(now))
	assert.False(t, (&Auction{
		IsActive: true,
		EndDate:  future,
		Bids:     []Bid{{Amount: 10, BidderID: uuid.New()}},
	}).CanBeModified(now))
}

func TestDeactivateReactivate(t *testing.T) {
	now := time.Now()
	auction := &Auction{IsActive: true}

	auction.Deactivate(now)
	assert.False(t, auction.IsActive)
	assert.NotNil(t, auction.DeactivatedAt)
	assert.Equal(t, now, *auction.DeactivatedAt)

	auction.Reactivate()
	assert.True(t, auction.IsActive)
	assert.Nil(t, auction.DeactivatedAt)
}

func TestStateDerivation(t *testing.T) {
	now := time.Now()
	recent := now.Add(-time.Hour)
	stale := now.Add(-PurgeGracePeriod - time.Hour)

	t.Run("active and unfinished", func(t *testing.T) {
		auction := &Auction{IsActive: true, EndDate: now.Add(time.Hour)}
		assert.Equal(t, AuctionStateActive, auction.State(now))
	})

	t.Run("closed by owner before the end date", func(t *testing.T) {
		auction := &Auction{IsActive: false, EndDate: now.Add(time.Hour), DeactivatedAt: &recent}
		assert.Equal(t, AuctionStateClosedByOwner, auction.State(now))
	})

	t.Run("expired after end date", func(t *testing.T) {
		auction := &Auction{IsActive: false, EndDate: now.Add(-time.Hour), DeactivatedAt: &recent}
		assert.Equal(t, AuctionStateExpired, auction.State(now))
	})

	t.Run("pending purge once the grace window elapses", func(t *testing.T) {
		auction := &Auction{IsActive: false, EndDate: now.Add(-48 * time.Hour), DeactivatedAt: &stale}
		assert.Equal(t, AuctionStatePendingPurge, auction.State(now))
	})
}
