// internal/services/bid_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pujaya/auction-backend/internal/models"
	"github.com/pujaya/auction-backend/internal/repository"
)

// BidService admits bids against auctions. Admission is serialized per
// auction through the repository's CommitBid primitive: the state checks and
// the insert happen under one exclusive lock, so of two concurrent bids only
// the first can win and the second is re-evaluated against the updated
// highest value.
type BidService struct {
	auctions      repository.AuctionRepository
	bids          repository.BidRepository
	users         repository.UserRepository
	notifications NotificationDispatcher
}

type BidSummary struct {
	ID        uuid.UUID  `json:"id"`
	Amount    int64      `json:"amount"`
	CreatedAt time.Time  `json:"created_at"`
	User      *BidderRef `json:"user"`
}

type BidderRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// AuctionBidSummary is one row per auction the user has bid on.
type AuctionBidSummary struct {
	AuctionID  uuid.UUID `json:"auction_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Image      string    `json:"image"`
	MyBid      int64     `json:"my_bid"`
	CurrentBid int64     `json:"current_bid"`
	TimeLeft   string    `json:"time_left"`
}

func NewBidService(auctions repository.AuctionRepository, bids repository.BidRepository, users repository.UserRepository, notifications NotificationDispatcher) *BidService {
	return &BidService{
		auctions:      auctions,
		bids:          bids,
		users:         users,
		notifications: notifications,
	}
}

// PlaceBid validates and commits a bid. The amount is normalized to whole
// currency units, truncating toward zero, and must be strictly greater than
// the auction's current highest bid at acceptance time.
func (s *BidService) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount float64) (*models.Bid, error) {
	auction, err := s.auctions.FindByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	if !auction.IsActive {
		return nil, ErrAuctionInactive
	}

	bidder, err := s.users.FindByID(ctx, bidderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if auction.OwnerID == bidder.ID {
		return nil, ErrSelfBidForbidden
	}

	// Bounds first: converting a float64 outside the int64 range is
	// implementation-defined, so reject before truncating.
	if math.IsNaN(amount) || amount < 1 || amount >= math.MaxInt64 {
		return nil, ErrInvalidBidAmount
	}
	intAmount := int64(math.Trunc(amount))

	// Cheap pre-check against the cached highest before taking the lock.
	if intAmount <= auction.CurrentHighestBid {
		return nil, ErrBidTooLow
	}

	bid, err := s.auctions.CommitBid(ctx, auctionID, func(locked *models.Auction) (*models.Bid, error) {
		// Re-verified under the lock: the expiry sweep may have closed the
		// auction, or a concurrent bid may have raised the highest value,
		// between the entry checks and this point.
		now := time.Now()
		if !locked.IsActive || locked.IsFinished(now) {
			return nil, ErrAuctionInactive
		}

		locked.ComputeCurrentHighestBid()
		if intAmount <= locked.CurrentHighestBid {
			return nil, ErrBidTooLow
		}

		return &models.Bid{
			Amount:    intAmount,
			BidderID:  bidder.ID,
			AuctionID: locked.ID,
			IsActive:  true,
		}, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	// The bid is durable; notify the owner without holding up the caller.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifications.BidPlaced(notifyCtx, auction.Owner.Email, auction.Owner.Name, auction.Name, bidder.Name, intAmount); err != nil {
			logrus.WithError(err).WithField("auction_id", auctionID).Error("Failed to send bid notification")
		}
	}()

	return bid, nil
}

// ListBidsForAuction returns bids ordered amount DESC, createdAt DESC.
func (s *BidService) ListBidsForAuction(ctx context.Context, auctionID uuid.UUID) ([]BidSummary, error) {
	if auctionID == uuid.Nil {
		return nil, fmt.Errorf("auctionId is required")
	}

	bids, err := s.bids.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	summaries := make([]BidSummary, 0, len(bids))
	for _, bid := range bids {
		summary := BidSummary{
			ID:        bid.ID,
			Amount:    bid.Amount,
			CreatedAt: bid.CreatedAt,
		}
		if bid.Bidder.ID != uuid.Nil {
			summary.User = &BidderRef{ID: bid.Bidder.ID, Name: bid.Bidder.Name}
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ListBidsForUser groups the user's bids by auction and keeps the user's
// highest bid per auction, alongside the auction's current highest bid and
// the remaining time. With onlyActive set, inactive or already-ended auctions
// are skipped.
func (s *BidService) ListBidsForUser(ctx context.Context, userID uuid.UUID, onlyActive bool) ([]AuctionBidSummary, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("userId is required")
	}

	bids, err := s.bids.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summaries := make(map[uuid.UUID]*AuctionBidSummary)
	reloaded := make(map[uuid.UUID]*models.Auction)
	var order []uuid.UUID

	for _, bid := range bids {
		if bid.Auction == nil {
			continue
		}

		// Reload so currentHighestBid reflects the latest durable commit,
		// not the value cached on the row the bid list carried.
		auction, ok := reloaded[bid.AuctionID]
		if !ok {
			auction, err = s.auctions.FindByID(ctx, bid.AuctionID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return nil, err
			}
			reloaded[bid.AuctionID] = auction
		}

		if onlyActive && (!auction.IsActive || auction.IsFinished(now)) {
			continue
		}

		existing, seen := summaries[auction.ID]
		if seen && bid.Amount <= existing.MyBid {
			continue
		}

		summary := &AuctionBidSummary{
			AuctionID:  auction.ID,
			Title:      auction.Name,
			MyBid:      bid.Amount,
			CurrentBid: auction.CurrentHighestBid,
			TimeLeft:   formatTimeLeft(auction.EndDate, now),
		}
		if auction.Product != nil {
			if auction.Product.Category != nil {
				summary.Category = auction.Product.Category.CategoryName
			}
			if len(auction.Product.Images) > 0 {
				summary.Image = auction.Product.Images[0]
			}
		}

		if !seen {
			order = append(order, auction.ID)
		}
		summaries[auction.ID] = summary
	}

	result := make([]AuctionBidSummary, 0, len(order))
	for _, id := range order {
		result = append(result, *summaries[id])
	}

	return result, nil
}

// formatTimeLeft renders the remaining time as "2h 15m", or "Ended" when the
// end date has passed.
func formatTimeLeft(endDate, now time.Time) string {
	diff := endDate.Sub(now)
	if diff <= 0 {
		return "Ended"
	}
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
