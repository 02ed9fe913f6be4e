// internal/repository/bid_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pujaya/auction-backend/internal/models"
)

type BidRepository interface {
	// ListByAuction returns bids ordered highest first, most recent on ties.
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
	// ListByUser returns the user's bids, newest first, with auctions loaded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Preload("Bidder").
		Where("auction_id = ?", auctionID).
		Order("amount DESC, created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bids: %w", err)
	}
	return bids, nil
}

func (r *bidRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Preload("Auction").
		Preload("Auction.Product").
		Preload("Auction.Product.Category").
		Where("bidder_id = ?", userID).
		Order("created_at DESC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user bids: %w", err)
	}
	return bids, nil
}
