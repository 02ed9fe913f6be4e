// internal/models/bid.go
package models

import (
	"github.com/google/uuid"
)

// Bid amounts are whole currency units. Fractional input is truncated toward
// zero before admission, so two bids never differ by less than one unit.
type Bid struct {
	BaseModel
	Amount int64 `json:"amount" gorm:"not null"`

	BidderID uuid.UUID `json:"bidder_id" gorm:"type:uuid;not null;index"`
	Bidder   User      `json:"bidder,omitempty" gorm:"foreignKey:BidderID"`

	AuctionID uuid.UUID `json:"auction_id" gorm:"type:uuid;not null;index"`
	Auction   *Auction  `json:"auction,omitempty" gorm:"foreignKey:AuctionID"`

	IsActive bool `json:"is_active" gorm:"default:true"`
}
