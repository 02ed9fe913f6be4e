// internal/models/auction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Auction struct {
	BaseModel
	Name          string     `json:"name" gorm:"type:text;not null"`
	Description   string     `json:"description" gorm:"type:text;not null"`
	IsActive      bool       `json:"is_active" gorm:"default:true;index"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	EndDate       time.Time  `json:"end_date" gorm:"not null;index"`

	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Owner   User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`

	// Optional one-to-one product. At most one auction may reference a given
	// product; once set the reference is only cleared by the delete path.
	ProductID *uuid.UUID `json:"product_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`

	Bids []Bid `json:"bids,omitempty" gorm:"foreignKey:AuctionID;constraint:OnDelete:CASCADE"`

	// Materialized view of max(bids.amount), falling back to the product's
	// initial price. Recomputed transactionally on every bid commit and on
	// every read path that returns an auction.
	CurrentHighestBid      int64      `json:"current_highest_bid" gorm:"default:0"`
	CurrentHighestBidderID *uuid.UUID `json:"current_highest_bidder_id,omitempty" gorm:"type:uuid"`

	Latitude  *float64 `json:"latitude,omitempty" gorm:"type:decimal(10,7)"`
	Longitude *float64 `json:"longitude,omitempty" gorm:"type:decimal(10,7)"`
}

func (a *Auction) HasBids() bool {
	return len(a.Bids) > 0
}

// IsFinished reports whether the auction's end date has been reached.
// An endDate equal to now counts as finished.
func (a *Auction) IsFinished(now time.Time) bool {
	return !now.Before(a.EndDate)
}

// CanBeModified reports whether endDate/product changes are still allowed:
// the auction must be active, not yet finished, and carry no bids.
func (a *Auction) CanBeModified(now time.Time) bool {
	return a.IsActive && !a.IsFinished(now) && !a.HasBids()
}

// HighestBid folds over the loaded bids; zero when there are none.
func (a *Auction) HighestBid() int64 {
	var highest int64
	for _, bid := range a.Bids {
		if bid.Amount > highest {
			highest = bid.Amount
		}
	}
	return highest
}

// ComputeCurrentHighestBid refreshes the cached price fact:
// max(bids.amount) if any bid exists, else product.initialPrice if a product
// is attached, else 0.
func (a *Auction) ComputeCurrentHighestBid() {
	if a.HasBids() {
		a.CurrentHighestBid = a.HighestBid()
		return
	}
	if a.Product != nil {
		a.CurrentHighestBid = a.Product.InitialPrice
		return
	}
	a.CurrentHighestBid = 0
}

// Deactivate flips the auction out of the active state and stamps the moment,
// the precondition for the purge sweep's grace window.
func (a *Auction) Deactivate(now time.Time) {
	a.IsActive = false
	a.DeactivatedAt = &now
}

// Reactivate is the admin toggle's inverse: clears both flags together.
func (a *Auction) Reactivate() {
	a.IsActive = true
	a.DeactivatedAt = nil
}

// State derives the lifecycle position at the given instant.
func (a *Auction) State(now time.Time) AuctionState {
	if a.IsActive && !a.IsFinished(now) {
		return AuctionStateActive
	}
	if a.DeactivatedAt != nil && now.Sub(*a.DeactivatedAt) >= PurgeGracePeriod {
		return AuctionStatePendingPurge
	}
	if a.IsFinished(now) {
		return AuctionStateExpired
	}
	return AuctionStateClosedByOwner
}
